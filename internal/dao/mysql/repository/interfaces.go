// Package repository 定义数据访问层接口和聚合结构
// 采用 Repository 模式将数据访问逻辑与业务逻辑分离
// 所有 Repository 接口在此文件定义，具体实现在各自的文件中
package repository

import (
	"group_chat_server/internal/model"

	"gorm.io/gorm"
)

// ==================== Repository 接口定义 ====================

// UserRepository 用户数据访问接口
type UserRepository interface {
	// FindByID 根据 ID 查找用户
	FindByID(id uint) (*model.User, error)
	// FindByIdentifier 用户名、邮箱、手机号任一匹配
	FindByIdentifier(identifier string) (*model.User, error)
	// ExistsByField 检查唯一字段是否已被其他用户占用
	ExistsByField(field, value string, excludeID uint) (bool, error)
	// FindByIDs 批量查找用户
	FindByIDs(ids []uint) ([]model.User, error)
	// List 按用户名模糊查询
	List(q string, page Page) ([]model.User, error)
	Create(user *model.User) error
	Save(user *model.User) error
	UpdateRole(id uint, role model.Role) error
	UpdatePassword(id uint, hash string) error
	Delete(id uint) error
}

// GroupRepository 群组数据访问接口
type GroupRepository interface {
	FindByID(id uint) (*model.Group, error)
	// FindByOwner 查找用户作为群主的所有群
	FindByOwner(userID uint) ([]model.Group, error)
	// List 按审核状态和群名过滤
	List(state model.AuditState, q string, page Page) ([]model.Group, error)
	Create(group *model.Group) error
	Save(group *model.Group) error
	// LockForWrite 在事务内对群行加写锁，串行化同一群的准入
	// 必须先于事务内任何非加锁读执行，否则 REPEATABLE READ 下后续读取仍看到加锁前的快照
	LockForWrite(id uint) error
	// NextChatNo 分配下一条消息序号
	NextChatNo(id uint) (uint, error)
	UpdateOwner(id, userID uint) error
	Delete(id uint) error
}

// MemberWithUser 群成员及其用户名
type MemberWithUser struct {
	model.GroupMember
	Username string
}

// MyGroupRow 我加入的群及我在群内的身份
type MyGroupRow struct {
	model.Group
	IsGroupAdmin bool
	MemberPin    model.PinState
}

// GroupMemberRepository 群成员数据访问接口
type GroupMemberRepository interface {
	// Find 查找成员关系，不存在返回 CodeNotFound
	Find(groupID, userID uint) (*model.GroupMember, error)
	Count(groupID uint) (int64, error)
	List(groupID uint, page Page) ([]MemberWithUser, error)
	// Search 昵称或用户名模糊匹配
	Search(groupID uint, q string) ([]MemberWithUser, error)
	// ListMyGroups 已审核通过且用户在其中的群，成员置顶优先
	ListMyGroups(userID uint) ([]MyGroupRow, error)
	// UserIDs 群内所有成员 ID
	UserIDs(groupID uint) ([]uint, error)
	// GroupIDsByUser 用户所在的所有群 ID
	GroupIDsByUser(userID uint) ([]uint, error)
	Create(member *model.GroupMember) error
	SetAdmin(groupID, userID uint, isAdmin bool) error
	SetPin(groupID, userID uint, pin model.PinState) error
	Delete(groupID, userID uint) error
	DeleteByGroup(groupID uint) error
	DeleteByUser(userID uint) error
}

// JoinRequestRepository 入群申请数据访问接口
type JoinRequestRepository interface {
	FindByID(id uint) (*model.GroupJoinRequest, error)
	// FindByIDForUpdate 事务内加锁读取申请
	FindByIDForUpdate(id uint) (*model.GroupJoinRequest, error)
	// FindPending 查找 (group, user) 的待审核申请
	FindPending(groupID, userID uint) (*model.GroupJoinRequest, error)
	// List state 为空时不过滤
	List(groupID uint, state model.AuditState, page Page) ([]model.GroupJoinRequest, error)
	Create(req *model.GroupJoinRequest) error
	UpdateState(id uint, state model.AuditState) error
	Delete(id uint) error
	DeleteByGroup(groupID uint) error
	DeleteByUser(userID uint) error
}

// CreateRequestRepository 建群申请数据访问接口
type CreateRequestRepository interface {
	FindByID(id uint) (*model.GroupCreateRequest, error)
	List(state model.AuditState, q string, page Page) ([]model.GroupCreateRequest, error)
	Create(req *model.GroupCreateRequest) error
	UpdateState(id uint, state model.AuditState) error
	Delete(id uint) error
	DeleteByUser(userID uint) error
}

// UpdateRequestRepository 群资料修改申请数据访问接口
type UpdateRequestRepository interface {
	FindByID(id uint) (*model.GroupUpdateRequest, error)
	// FindPendingByGroup 每个群最多一条待审核申请
	FindPendingByGroup(groupID uint) (*model.GroupUpdateRequest, error)
	// List groupID 为 0 时不过滤
	List(state model.AuditState, groupID uint, page Page) ([]model.GroupUpdateRequest, error)
	Create(req *model.GroupUpdateRequest) error
	Save(req *model.GroupUpdateRequest) error
	UpdateState(id uint, state model.AuditState) error
	Delete(id uint) error
	DeleteByGroup(groupID uint) error
	DeleteByUser(userID uint) error
}

// ReportFilter 举报列表过滤条件，零值表示不过滤
type ReportFilter struct {
	State          model.AuditState
	ReporterID     uint
	ReportedUserID uint
	GroupID        uint
}

// ReportRepository 举报数据访问接口
type ReportRepository interface {
	FindByID(id uint) (*model.Report, error)
	List(filter ReportFilter, page Page) ([]model.Report, error)
	Create(report *model.Report) error
	UpdateState(id uint, state model.AuditState) error
	Delete(id uint) error
	// DeleteByGroup 删除指向该群或该群消息的举报
	DeleteByGroup(groupID uint) error
	// DeleteByUser 删除该用户发起的、针对该用户的、以及针对其消息的举报
	DeleteByUser(userID uint) error
	// GroupIDsByUser DeleteByUser 会删除的举报所指向的群
	GroupIDsByUser(userID uint) ([]uint, error)
	// CountApprovedByGroup 群被审核通过的举报数
	CountApprovedByGroup(groupID uint) (int64, error)
	// CountApprovedByUsers 用户被审核通过的举报数
	CountApprovedByUsers(userIDs []uint) (map[uint]int64, error)
}

// ChatFilter 聊天记录过滤条件
type ChatFilter struct {
	GroupID   uint
	MinChatNo uint
	Q         string
}

// ChatMessageRepository 群聊消息数据访问接口
type ChatMessageRepository interface {
	FindByID(id uint) (*model.ChatMessage, error)
	List(filter ChatFilter, page Page) ([]model.ChatMessage, error)
	Create(msg *model.ChatMessage) error
	Delete(id uint) error
	DeleteByGroup(groupID uint) error
	DeleteByUser(userID uint) error
}

// ==================== Repository 聚合 ====================

// Repositories 聚合所有 Repository 实例
// 作为依赖注入的入口，Service 层通过此结构访问数据层
type Repositories struct {
	db            *gorm.DB
	User          UserRepository
	Group         GroupRepository
	GroupMember   GroupMemberRepository
	JoinRequest   JoinRequestRepository
	CreateRequest CreateRequestRepository
	UpdateRequest UpdateRequestRepository
	Report        ReportRepository
	ChatMessage   ChatMessageRepository
}

// NewRepositories 创建所有 Repository 实例
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:            db,
		User:          NewUserRepository(db),
		Group:         NewGroupRepository(db),
		GroupMember:   NewGroupMemberRepository(db),
		JoinRequest:   NewJoinRequestRepository(db),
		CreateRequest: NewCreateRequestRepository(db),
		UpdateRequest: NewUpdateRequestRepository(db),
		Report:        NewReportRepository(db),
		ChatMessage:   NewChatMessageRepository(db),
	}
}

// Transaction 在数据库事务中执行函数
// 事务内的所有操作要么全部成功，要么全部回滚
// fn: 事务执行函数，接收事务内的 Repositories 实例
func (r *Repositories) Transaction(fn func(txRepos *Repositories) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// 使用事务 db 创建新的 Repositories 实例
		return fn(NewRepositories(tx))
	})
}

// Ping 检查数据库连接
func (r *Repositories) Ping() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return wrapDBError(err, "获取数据库连接")
	}
	return wrapDBError(sqlDB.Ping(), "数据库连接检查")
}

// Close 关闭底层连接池
func (r *Repositories) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
