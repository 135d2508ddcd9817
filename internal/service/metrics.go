package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Mutation outcomes recorded on storefront_list_mutations_total.
const (
	outcomeAdded     = "added"
	outcomeDuplicate = "duplicate"
	outcomeUnknown   = "unknown_product"
	outcomeRemoved   = "removed"
	outcomeAbsent    = "absent"
	outcomeCleared   = "cleared"
	outcomeFailed    = "failed"
)

var listMutations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "storefront_list_mutations_total",
		Help: "Total number of cart and wishlist mutations by outcome",
	},
	[]string{"list", "action", "outcome"},
)
