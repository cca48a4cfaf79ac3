package match

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config carries every sizing and placement constant the engine consumes.
// All memory the hot path touches is derived from these numbers once, at
// construction.
type Config struct {
	RingCapacity   uint64 // submission ring slots, power of two
	ArenaBytes     int    // total arena reservation
	MaxOrders      int    // order pool capacity
	MaxPriceLevels int    // flat price-level array length per side
	IDTableSize    int    // id->order table slots, power of two
	MatcherCoreID  int    // logical CPU the matcher pins to

	PriceMultiplier int64 // fixed-point scale, 10^PriceScale

	// Synthetic flow parameters consumed by the gateway.
	MidPrice          int64
	GatewayOrderCount int
	LimitOrderRatio   float64
	MarketOrderRatio  float64
	GatewaySeed       int64
}

// DefaultConfig returns the built-in sizing.
func DefaultConfig() Config {
	return Config{
		RingCapacity:      DefaultRingCapacity,
		ArenaBytes:        DefaultArenaBytes,
		MaxOrders:         DefaultMaxOrders,
		MaxPriceLevels:    DefaultMaxPriceLevels,
		IDTableSize:       DefaultIDTableSize,
		MatcherCoreID:     DefaultMatcherCoreID,
		PriceMultiplier:   DefaultPriceMultiplier,
		MidPrice:          DefaultMidPrice,
		GatewayOrderCount: DefaultGatewayOrderCount,
		LimitOrderRatio:   DefaultLimitOrderRatio,
		MarketOrderRatio:  DefaultMarketOrderRatio,
		GatewaySeed:       DefaultGatewaySeed,
	}
}

// LoadConfig resolves the configuration from defaults, an optional .env
// file, and HYPERMATCH_-prefixed environment variables. The executable
// itself takes no flags.
func LoadConfig() Config {
	v := viper.New()
	v.SetEnvPrefix("HYPERMATCH")
	v.AutomaticEnv()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		logger.Debug("no config file found, using defaults and environment")
	}

	def := DefaultConfig()
	v.SetDefault("RING_CAPACITY", def.RingCapacity)
	v.SetDefault("ARENA_BYTES", def.ArenaBytes)
	v.SetDefault("MAX_ORDERS", def.MaxOrders)
	v.SetDefault("MAX_PRICE_LEVELS", def.MaxPriceLevels)
	v.SetDefault("ID_TABLE_SIZE", def.IDTableSize)
	v.SetDefault("MATCHER_CORE_ID", def.MatcherCoreID)
	v.SetDefault("MID_PRICE", def.MidPrice)
	v.SetDefault("GATEWAY_ORDER_COUNT", def.GatewayOrderCount)
	v.SetDefault("LIMIT_ORDER_RATIO", def.LimitOrderRatio)
	v.SetDefault("MARKET_ORDER_RATIO", def.MarketOrderRatio)
	v.SetDefault("GATEWAY_SEED", def.GatewaySeed)

	return Config{
		RingCapacity:      v.GetUint64("RING_CAPACITY"),
		ArenaBytes:        v.GetInt("ARENA_BYTES"),
		MaxOrders:         v.GetInt("MAX_ORDERS"),
		MaxPriceLevels:    v.GetInt("MAX_PRICE_LEVELS"),
		IDTableSize:       v.GetInt("ID_TABLE_SIZE"),
		MatcherCoreID:     v.GetInt("MATCHER_CORE_ID"),
		PriceMultiplier:   def.PriceMultiplier,
		MidPrice:          v.GetInt64("MID_PRICE"),
		GatewayOrderCount: v.GetInt("GATEWAY_ORDER_COUNT"),
		LimitOrderRatio:   v.GetFloat64("LIMIT_ORDER_RATIO"),
		MarketOrderRatio:  v.GetFloat64("MARKET_ORDER_RATIO"),
		GatewaySeed:       v.GetInt64("GATEWAY_SEED"),
	}
}

// Validate rejects configurations the engine cannot run with.
func (c Config) Validate() error {
	if c.RingCapacity == 0 || c.RingCapacity&(c.RingCapacity-1) != 0 {
		return fmt.Errorf("%w: ring capacity %d is not a power of 2", ErrInvalidParam, c.RingCapacity)
	}
	if c.IDTableSize <= 0 || c.IDTableSize&(c.IDTableSize-1) != 0 {
		return fmt.Errorf("%w: id table size %d is not a power of 2", ErrInvalidParam, c.IDTableSize)
	}
	if c.ArenaBytes <= 0 || c.MaxOrders <= 0 || c.MaxPriceLevels <= 0 {
		return fmt.Errorf("%w: arena, pool and level sizes must be positive", ErrInvalidParam)
	}
	if c.PriceMultiplier <= 0 {
		return fmt.Errorf("%w: price multiplier must be positive", ErrInvalidParam)
	}
	if c.LimitOrderRatio < 0 || c.MarketOrderRatio < 0 || c.LimitOrderRatio+c.MarketOrderRatio > 1 {
		return fmt.Errorf("%w: order type ratios must be non-negative and sum to at most 1", ErrInvalidParam)
	}
	return nil
}
