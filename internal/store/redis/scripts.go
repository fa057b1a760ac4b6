package redis

import (
	"fmt"

	"github.com/redis/go-redis/v9"
)

// insertOrderedScript stores a record and appends its ID to a parent index
// with score = max(score)+1 (0 for an empty index), in one atomic step.
//
// KEYS[1] parent sorted set, KEYS[2] record key, KEYS[3] global ID set,
// KEYS[4] parent record that must exist ("" to skip the check).
// ARGV[1] record ID, ARGV[2] record JSON.
// Returns {1, order} on success, {0} when the parent is gone.
var insertOrderedScript = redis.NewScript(`
if KEYS[4] ~= "" and redis.call('EXISTS', KEYS[4]) == 0 then
	return {0}
end
local top = redis.call('ZREVRANGE', KEYS[1], 0, 0, 'WITHSCORES')
local order = 0
if #top == 2 then
	order = math.floor(tonumber(top[2])) + 1
end
redis.call('SET', KEYS[2], ARGV[2])
redis.call('ZADD', KEYS[1], order, ARGV[1])
redis.call('SADD', KEYS[3], ARGV[1])
return {1, order}
`)

// parseInsertResult decodes the reply of insertOrderedScript.
func parseInsertResult(res []int64) (order int64, ok bool, err error) {
	switch {
	case len(res) == 1 && res[0] == 0:
		return 0, false, nil
	case len(res) == 2 && res[0] == 1:
		return res[1], true, nil
	default:
		return 0, false, fmt.Errorf("unexpected insert reply: %v", res)
	}
}
