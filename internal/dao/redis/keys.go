package redis

import (
	"strconv"
	"time"
)

const (
	// GroupInfoTTL 群详情缓存时长
	GroupInfoTTL = 10 * time.Minute
	// MyGroupsTTL 我的群列表缓存时长
	MyGroupsTTL = 10 * time.Minute

	groupInfoPrefix    = "group_info_"
	myGroupsPrefix     = "my_groups_"
	refreshTokenPrefix = "refresh_token_"
)

// GroupInfoKey 群详情缓存键
func GroupInfoKey(groupID uint) string {
	return groupInfoPrefix + strconv.FormatUint(uint64(groupID), 10)
}

// MyGroupsKey 用户所在群列表缓存键
func MyGroupsKey(userID uint) string {
	return myGroupsPrefix + strconv.FormatUint(uint64(userID), 10)
}

// MyGroupsPattern 所有用户的群列表缓存
func MyGroupsPattern() string {
	return myGroupsPrefix + "*"
}

// RefreshTokenKey 当前有效 Refresh Token ID
func RefreshTokenKey(userID uint) string {
	return refreshTokenPrefix + strconv.FormatUint(uint64(userID), 10)
}
