package relay

import (
	"context"
	"errors"

	"github.com/dropbox/godropbox/time2"
	"github.com/ethereum/go-ethereum/common"
	"github/chapool/eth-relay/internal/metrics"
	"github/chapool/eth-relay/internal/util"
)

// Service resolves transfer requests and hands confirmed-safe transfers to the Wallet.
// It keeps no state between requests.
type Service struct {
	config  Config
	wallet  Wallet
	metrics *metrics.Service
	clock   time2.Clock
}

func NewService(config Config, wallet Wallet, metrics *metrics.Service, clock time2.Clock) *Service {
	return &Service{
		config:  config,
		wallet:  wallet,
		metrics: metrics,
		clock:   clock,
	}
}

func (s *Service) Config() Config {
	return s.config
}

// Transfer resolves destination and amount, checks the balance covers amount plus the
// estimated gas, submits the transfer and waits for its confirmation.
func (s *Service) Transfer(ctx context.Context, req *Request) (*Outcome, error) {
	start := s.clock.Now()

	outcome, err := s.transfer(ctx, req)

	s.metrics.ObserveTransfer(outcomeLabel(err), s.clock.Now().Sub(start))
	if err == nil {
		s.metrics.AddTransferredETH(outcome.Amount.InexactFloat64())
	}

	return outcome, err
}

func (s *Service) transfer(ctx context.Context, req *Request) (*Outcome, error) {
	log := util.LogFromContext(ctx)

	to, err := resolveDestination(req, s.config)
	if err != nil {
		return nil, err
	}

	amount, hasAmount, err := resolveStaticAmount(req, s.config)
	if err != nil {
		return nil, err
	}

	pct, hasPercentage, err := parsePercentage(req.Percentage)
	if err != nil {
		return nil, err
	}

	if !hasAmount && !hasPercentage {
		return nil, ErrInvalidAmount
	}

	balanceWei, err := s.wallet.Balance(ctx)
	if err != nil {
		return nil, newExternalError("get balance", err)
	}
	balance := weiToETH(balanceWei)
	s.metrics.SetWalletBalance(balance.InexactFloat64())

	if hasPercentage {
		amount = percentageOfBalance(balance, pct)
		log.Debug().
			Str("percentage", pct.String()).
			Str("balance_eth", balance.String()).
			Str("amount_eth", amount.String()).
			Msg("Amount resolved from percentage of balance")
	}

	valueWei := ethToWei(amount)
	if valueWei.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	gasPriceWei, err := s.wallet.GasPrice(ctx)
	if err != nil {
		return nil, newExternalError("get gas price", err)
	}
	gasEstimate := weiToETH(estimateGasCost(gasPriceWei))

	if amount.Add(gasEstimate).GreaterThan(balance) {
		return nil, &InsufficientFundsError{
			Available:       balance,
			Requested:       amount,
			GasEstimate:     gasEstimate,
			MaxWithdrawable: maxWithdrawable(balance, gasEstimate),
		}
	}

	log.Info().
		Str("to", to.Hex()).
		Str("amount_eth", amount.String()).
		Str("balance_eth", balance.String()).
		Str("gas_estimate_eth", gasEstimate.String()).
		Msg("Submitting transfer")

	conf, err := s.wallet.SubmitTransfer(ctx, to, valueWei, NewFeePolicy(gasPriceWei))
	if err != nil {
		return nil, newExternalError("submit transfer", err)
	}

	outcome := &Outcome{
		TxHash:         conf.TxHash.Hex(),
		Amount:         amount,
		AmountUSD:      amount.Mul(s.config.PriceReference),
		PriceReference: s.config.PriceReference,
		To:             to,
		GasUsed:        gasPaid(conf),
		BlockNumber:    conf.BlockNumber,
	}

	log.Info().
		Str("tx_hash", outcome.TxHash).
		Str("to", to.Hex()).
		Str("amount_eth", amount.String()).
		Str("gas_used_eth", outcome.GasUsed.String()).
		Uint64("block_number", outcome.BlockNumber).
		Msg("Transfer confirmed")

	return outcome, nil
}

// Quote reports the wallet balance and the largest amount a transfer could currently move.
func (s *Service) Quote(ctx context.Context) (*Quote, error) {
	balanceWei, err := s.wallet.Balance(ctx)
	if err != nil {
		return nil, newExternalError("get balance", err)
	}
	balance := weiToETH(balanceWei)
	s.metrics.SetWalletBalance(balance.InexactFloat64())

	gasPriceWei, err := s.wallet.GasPrice(ctx)
	if err != nil {
		return nil, newExternalError("get gas price", err)
	}
	gasEstimate := weiToETH(estimateGasCost(gasPriceWei))

	return &Quote{
		Address:         s.wallet.Address(),
		Balance:         balance,
		BalanceUSD:      balance.Mul(s.config.PriceReference),
		GasEstimate:     gasEstimate,
		MaxWithdrawable: maxWithdrawable(balance, gasEstimate),
		PriceReference:  s.config.PriceReference,
	}, nil
}

// ParseDestination validates a configured or requested destination address.
func ParseDestination(raw string) (common.Address, error) {
	return resolveDestination(&Request{To: raw}, Config{})
}

func outcomeLabel(err error) string {
	var insufficient *InsufficientFundsError
	var external *ExternalError

	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrMissingDestination):
		return metrics.OutcomeMissingDestination
	case errors.As(err, &insufficient):
		return metrics.OutcomeInsufficientFunds
	case errors.As(err, &external):
		return metrics.OutcomeExternalFailure
	default:
		return metrics.OutcomeInvalidRequest
	}
}
