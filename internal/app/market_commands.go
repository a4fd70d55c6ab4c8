package app

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	clierr "github.com/suisage/suisage/internal/errors"
	"github.com/suisage/suisage/internal/market"
	"github.com/suisage/suisage/internal/registry"
)

func rankPools(pools []market.Pool, sortBy string, limit int) []market.Pool {
	market.SortPools(pools, sortBy)
	return market.TruncatePools(pools, limit)
}

func resolveCoinArg(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", clierr.New(clierr.CodeUsage, "coin is required")
	}
	if strings.Contains(input, "::") {
		return registry.NormalizeSuiType(input), nil
	}
	return registry.Resolve(input)
}

func (s *runtimeState) newPriceCommand() *cobra.Command {
	var coinsArg []string
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Current USD prices for one or more coins",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(coinsArg) == 0 {
				return clierr.New(clierr.CodeUsage, "--coin is required")
			}
			coinTypes := make([]string, 0, len(coinsArg))
			for _, raw := range coinsArg {
				coinType, err := resolveCoinArg(raw)
				if err != nil {
					return err
				}
				coinTypes = append(coinTypes, coinType)
			}
			path := trimRootPath(cmd.CommandPath())
			key := cacheKey(path, map[string]any{"coins": coinTypes, "network": s.settings.Network})
			return s.runCachedCommand(path, key, 30*time.Second, func(ctx context.Context) (any, error) {
				return s.market.CoinsPriceInfo(ctx, coinTypes, s.settings.Network)
			})
		},
	}
	cmd.Flags().StringSliceVar(&coinsArg, "coin", nil, "Coin symbol or full coin type (repeatable)")
	return cmd
}

func (s *runtimeState) newPoolsCommand() *cobra.Command {
	root := &cobra.Command{Use: "pools", Short: "Liquidity pool data"}

	var sortBy string
	var limit int
	topCmd := &cobra.Command{
		Use:   "top",
		Short: "Top pools by TVL, APR or fees",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := trimRootPath(cmd.CommandPath())
			key := cacheKey(path, map[string]any{"sort_by": sortBy, "limit": limit, "network": s.settings.Network})
			return s.runCachedCommand(path, key, 5*time.Minute, func(ctx context.Context) (any, error) {
				pools, err := s.market.AllPools(ctx, s.settings.Network)
				if err != nil {
					return nil, err
				}
				return rankPools(pools, sortBy, limit), nil
			})
		},
	}
	topCmd.Flags().StringVar(&sortBy, "sort", "tvl", "Sort key (tvl|apr|fees)")
	topCmd.Flags().IntVar(&limit, "limit", 10, "Number of pools to return")
	root.AddCommand(topCmd)

	var poolID string
	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "Pool tokens, reserves and stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := trimRootPath(cmd.CommandPath())
			key := cacheKey(path, map[string]any{"pool_id": poolID, "network": s.settings.Network})
			return s.runCachedCommand(path, key, 5*time.Minute, func(ctx context.Context) (any, error) {
				return s.market.Pool(ctx, poolID, s.settings.Network)
			})
		},
	}
	infoCmd.Flags().StringVar(&poolID, "pool", "", "Pool object ID")
	_ = infoCmd.MarkFlagRequired("pool")
	root.AddCommand(infoCmd)

	var spotPool, coinIn, coinOut string
	var withFees bool
	spotCmd := &cobra.Command{
		Use:   "spot-price",
		Short: "Spot price between two coins in a pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			inType, err := resolveCoinArg(coinIn)
			if err != nil {
				return err
			}
			outType, err := resolveCoinArg(coinOut)
			if err != nil {
				return err
			}
			path := trimRootPath(cmd.CommandPath())
			key := cacheKey(path, map[string]any{
				"pool_id":  spotPool,
				"coin_in":  inType,
				"coin_out": outType,
				"fees":     withFees,
				"network":  s.settings.Network,
			})
			return s.runCachedCommand(path, key, 15*time.Second, func(ctx context.Context) (any, error) {
				price, err := s.market.PoolSpotPrice(ctx, spotPool, inType, outType, withFees, s.settings.Network)
				if err != nil {
					return nil, err
				}
				return map[string]any{"spot_price": price, "with_fees": withFees}, nil
			})
		},
	}
	spotCmd.Flags().StringVar(&spotPool, "pool", "", "Pool object ID")
	spotCmd.Flags().StringVar(&coinIn, "coin-in", "", "Input coin symbol or type")
	spotCmd.Flags().StringVar(&coinOut, "coin-out", "", "Output coin symbol or type")
	spotCmd.Flags().BoolVar(&withFees, "with-fees", true, "Include pool fees in the price")
	_ = spotCmd.MarkFlagRequired("pool")
	_ = spotCmd.MarkFlagRequired("coin-in")
	_ = spotCmd.MarkFlagRequired("coin-out")
	root.AddCommand(spotCmd)

	return root
}

func (s *runtimeState) newRouteCommand() *cobra.Command {
	var from, to, amount string
	cmd := &cobra.Command{
		Use:   "route",
		Short: "Best trade route between two coins",
		RunE: func(cmd *cobra.Command, args []string) error {
			fromType, err := resolveCoinArg(from)
			if err != nil {
				return err
			}
			toType, err := resolveCoinArg(to)
			if err != nil {
				return err
			}
			if strings.TrimSpace(amount) == "" {
				return clierr.New(clierr.CodeUsage, "--amount is required (base units)")
			}
			path := trimRootPath(cmd.CommandPath())
			key := cacheKey(path, map[string]any{
				"from":    fromType,
				"to":      toType,
				"amount":  amount,
				"network": s.settings.Network,
			})
			return s.runCachedCommand(path, key, 15*time.Second, func(ctx context.Context) (any, error) {
				return s.market.TradeRoute(ctx, fromType, toType, amount, s.settings.Network)
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Input coin symbol or type")
	cmd.Flags().StringVar(&to, "to", "", "Output coin symbol or type")
	cmd.Flags().StringVar(&amount, "amount", "", "Input amount in base units")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func (s *runtimeState) newStakingCommand() *cobra.Command {
	var wallet string
	cmd := &cobra.Command{
		Use:   "staking",
		Short: "Staking positions held by a wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := trimRootPath(cmd.CommandPath())
			key := cacheKey(path, map[string]any{"wallet": wallet, "network": s.settings.Network})
			return s.runCachedCommand(path, key, time.Minute, func(ctx context.Context) (any, error) {
				return s.market.StakingPositions(ctx, wallet, s.settings.Network)
			})
		},
	}
	cmd.Flags().StringVar(&wallet, "wallet", "", "Wallet address")
	_ = cmd.MarkFlagRequired("wallet")
	return cmd
}

func (s *runtimeState) newDcaCommand() *cobra.Command {
	var wallet string
	cmd := &cobra.Command{
		Use:   "dca",
		Short: "Active DCA orders for a wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := trimRootPath(cmd.CommandPath())
			key := cacheKey(path, map[string]any{"wallet": wallet, "network": s.settings.Network})
			return s.runCachedCommand(path, key, time.Minute, func(ctx context.Context) (any, error) {
				return s.market.DcaOrders(ctx, wallet, s.settings.Network)
			})
		},
	}
	cmd.Flags().StringVar(&wallet, "wallet", "", "Wallet address")
	_ = cmd.MarkFlagRequired("wallet")
	return cmd
}
