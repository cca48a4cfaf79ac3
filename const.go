package match

// EngineVersion is the current version of the matching engine.
const EngineVersion = "v1.0.0"

// CacheLineSize is the byte width assumed for cache-line sizing and
// padding throughout the engine.
const CacheLineSize = 64

// PriceScale is the number of fixed-point decimal digits carried by every
// price: fixed = real price * 10^PriceScale.
const PriceScale = 4

// Default configuration values; see Config for what each one governs.
const (
	DefaultRingCapacity      = 1 << 16 // 65536 envelopes
	DefaultArenaBytes        = 64 << 20
	DefaultMaxOrders         = 500_000
	DefaultMaxPriceLevels    = 10_000
	DefaultIDTableSize       = 1 << 20
	DefaultMatcherCoreID     = 1
	DefaultPriceMultiplier   = 10_000 // 10^PriceScale
	DefaultMidPrice          = 1_000_000
	DefaultGatewayOrderCount = 200_000
	DefaultLimitOrderRatio   = 0.70
	DefaultMarketOrderRatio  = 0.20
	DefaultGatewaySeed       = 42
)

// compactInterval is the idle-spin period between book compaction passes
// in the matcher loop. Power of two so the check is a mask.
const compactInterval = 1 << 17
