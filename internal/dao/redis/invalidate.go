package redis

import (
	"context"

	"go.uber.org/zap"
)

// InvalidateGroups 事务提交后异步删除群详情和所有用户的群列表
func InvalidateGroups(cache AsyncCacheService, groupIDs ...uint) {
	cache.SubmitTask(func() {
		ctx := context.Background()
		if len(groupIDs) > 0 {
			keys := make([]string, 0, len(groupIDs))
			for _, id := range groupIDs {
				keys = append(keys, GroupInfoKey(id))
			}
			if err := cache.Delete(ctx, keys...); err != nil {
				zap.L().Error("invalidate group info cache", zap.Error(err))
			}
		}
		if err := cache.DeleteByPattern(ctx, MyGroupsPattern()); err != nil {
			zap.L().Error("invalidate my groups cache", zap.Error(err))
		}
	})
}

// InvalidateMyGroups 只删除指定用户的群列表
func InvalidateMyGroups(cache AsyncCacheService, userIDs ...uint) {
	if len(userIDs) == 0 {
		return
	}
	cache.SubmitTask(func() {
		keys := make([]string, 0, len(userIDs))
		for _, id := range userIDs {
			keys = append(keys, MyGroupsKey(id))
		}
		if err := cache.Delete(context.Background(), keys...); err != nil {
			zap.L().Error("invalidate my groups cache", zap.Error(err))
		}
	})
}
