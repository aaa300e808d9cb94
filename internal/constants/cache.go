package constants

import "time"

const (
	UserCachePrefix                = "user"                  // CacheBuilder adds the colon
	UserCacheExpiry                = 7 * 24 * time.Hour      // 7 days
	UserModelPreferenceCachePrefix = "user_model_preference" // keyed by userID:modelType
	UserModelPreferenceCacheExpiry = time.Hour
)
