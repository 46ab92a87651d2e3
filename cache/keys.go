package cache

import "github.com/christopher1986/querybuilder/utils"

// Key derives the cache key for sql prepared under the named dialect.
func Key(dialectName, sql string) uint64 {
	return utils.Mix64(utils.FingerprintString(dialectName), utils.FingerprintString(sql))
}
