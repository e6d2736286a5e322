package model

// GroupPatch 群资料的部分更新，nil 字段表示不修改
// 同时作为 group_update_request 表的嵌入列
type GroupPatch struct {
	Name          *string `gorm:"column:name;type:varchar(100)"`
	GroupType     *string `gorm:"column:group_type;type:varchar(50)"`
	Note          *string `gorm:"column:note;type:varchar(500)"`
	AnnounceLimit *int    `gorm:"column:announce_limit"`
	MemberLimit   *int    `gorm:"column:member_limit"`
	Announce      *string `gorm:"column:announce;type:text"`
	AvatarURL     *string `gorm:"column:avatar_url;type:varchar(255)"`
}

// mergeField 后者非空时覆盖前者
func mergeField[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

// applyField 非空时写入目标值
func applyField[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Merge 将 newer 中的非空字段叠加到 p 上，newer 优先
func (p GroupPatch) Merge(newer GroupPatch) GroupPatch {
	out := p
	mergeField(&out.Name, newer.Name)
	mergeField(&out.GroupType, newer.GroupType)
	mergeField(&out.Note, newer.Note)
	mergeField(&out.AnnounceLimit, newer.AnnounceLimit)
	mergeField(&out.MemberLimit, newer.MemberLimit)
	mergeField(&out.Announce, newer.Announce)
	mergeField(&out.AvatarURL, newer.AvatarURL)
	return out
}

// ApplyTo 将补丁写入群实体
func (p GroupPatch) ApplyTo(g *Group) {
	applyField(&g.Name, p.Name)
	applyField(&g.GroupType, p.GroupType)
	applyField(&g.Note, p.Note)
	applyField(&g.AnnounceLimit, p.AnnounceLimit)
	applyField(&g.MemberLimit, p.MemberLimit)
	applyField(&g.Announce, p.Announce)
	applyField(&g.AvatarURL, p.AvatarURL)
}

// IsEmpty 没有任何待修改字段
func (p GroupPatch) IsEmpty() bool {
	return p.Name == nil && p.GroupType == nil && p.Note == nil &&
		p.AnnounceLimit == nil && p.MemberLimit == nil &&
		p.Announce == nil && p.AvatarURL == nil
}

// Fields 返回被修改字段的列名
func (p GroupPatch) Fields() []string {
	fields := make([]string, 0, 7)
	if p.Name != nil {
		fields = append(fields, "name")
	}
	if p.GroupType != nil {
		fields = append(fields, "group_type")
	}
	if p.Note != nil {
		fields = append(fields, "note")
	}
	if p.AnnounceLimit != nil {
		fields = append(fields, "announce_limit")
	}
	if p.MemberLimit != nil {
		fields = append(fields, "member_limit")
	}
	if p.Announce != nil {
		fields = append(fields, "announce")
	}
	if p.AvatarURL != nil {
		fields = append(fields, "avatar_url")
	}
	return fields
}
