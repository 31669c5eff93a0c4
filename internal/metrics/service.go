package metrics

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "eth_relay"

// Transfer outcomes used as the "outcome" label.
const (
	OutcomeSuccess            = "success"
	OutcomeMissingDestination = "missing_destination"
	OutcomeInvalidRequest     = "invalid_request"
	OutcomeInsufficientFunds  = "insufficient_funds"
	OutcomeExternalFailure    = "external_failure"
)

// Service owns the prometheus registry of the relay. Every server instance gets its own
// registry, parallel test servers never collide on registration.
type Service struct {
	registry *prometheus.Registry

	transfers        *prometheus.CounterVec
	transferDuration prometheus.Histogram
	transferredETH   prometheus.Counter
	walletBalanceETH prometheus.Gauge
}

func New() (*Service, error) {
	registry := prometheus.NewRegistry()

	s := &Service{
		registry: registry,
		transfers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfers_total",
			Help:      "Transfer requests handled, by outcome.",
		}, []string{"outcome"}),
		transferDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transfer_duration_seconds",
			Help:      "Time from request to confirmation or failure.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		}),
		transferredETH: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transferred_eth_total",
			Help:      "ETH sent by confirmed transfers.",
		}),
		walletBalanceETH: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "wallet_balance_eth",
			Help:      "Backend wallet balance as last seen by a request.",
		}),
	}

	for _, c := range []prometheus.Collector{
		s.transfers,
		s.transferDuration,
		s.transferredETH,
		s.walletBalanceETH,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := registry.Register(c); err != nil {
			return nil, errors.Wrap(err, "failed to register collector")
		}
	}

	return s, nil
}

func (s *Service) Registry() *prometheus.Registry {
	return s.registry
}

func (s *Service) ObserveTransfer(outcome string, duration time.Duration) {
	s.transfers.WithLabelValues(outcome).Inc()
	s.transferDuration.Observe(duration.Seconds())
}

func (s *Service) AddTransferredETH(eth float64) {
	s.transferredETH.Add(eth)
}

func (s *Service) SetWalletBalance(eth float64) {
	s.walletBalanceETH.Set(eth)
}

// TransferCount returns the current value of the transfers counter for outcome.
func (s *Service) TransferCount(outcome string) (float64, error) {
	families, err := s.registry.Gather()
	if err != nil {
		return 0, errors.Wrap(err, "failed to gather metrics")
	}

	for _, family := range families {
		if family.GetName() != namespace+"_transfers_total" {
			continue
		}
		for _, m := range family.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == "outcome" && label.GetValue() == outcome {
					return m.GetCounter().GetValue(), nil
				}
			}
		}
	}

	return 0, nil
}
