package common

const (
	// RedisKeyLastPrice holds the last fetched quote of a symbol as a hash.
	RedisKeyLastPrice = "last_price:%s"

	CacheKeySwingTrades  = "swing_trades:%s"
	CacheKeyMultibaggers = "multibaggers:%s"

	ExchangeSuffixNSE = ".NS"
	ExchangeSuffixBSE = ".BO"
)
