// Package model 定义了与数据库表对应的 Go 结构体以及检索引擎的数据结构。
package model

// TagFilter 枚举了标签过滤模式。
type TagFilter string

const (
	TagFilterAny      TagFilter = "any"      // 不按标签过滤
	TagFilterWith     TagFilter = "with"     // 仅保留带标签的图片
	TagFilterWithout  TagFilter = "without"  // 仅保留不带标签的图片
	TagFilterSpecific TagFilter = "specific" // 要求与指定标签集合有交集
)

// ParseTagFilter 解析标签过滤模式，无法识别的值一律回落到 any。
func ParseTagFilter(s string) TagFilter {
	switch TagFilter(s) {
	case TagFilterWith, TagFilterWithout, TagFilterSpecific:
		return TagFilter(s)
	default:
		return TagFilterAny
	}
}

// SearchOptions 是检索请求的选项集合。
// 在 handler 边界解析一次，后续各阶段即可假定字段类型良好。
type SearchOptions struct {
	// MatchType 是调用方提供的匹配模式提示（all/any），打分阶段当前并不使用，
	// 仅透传回响应的 appliedOptions 以便诊断。
	MatchType    string    `json:"matchType,omitempty"`
	ExactOnly    bool      `json:"exactOnly"`
	MinScore     int       `json:"minScore"`
	TagFilter    TagFilter `json:"tagFilter"`
	SpecificTags []string  `json:"specificTags,omitempty"`
}

// Pagination 是归一化后的分页参数。
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Skip  int `json:"skip"`
}

// ValidationError 表示一个可由调用方修正的请求校验错误。
// 它作为普通的 error 值沿管道返回，而不是 panic。
type ValidationError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// Error 实现了 error 接口。
func (e *ValidationError) Error() string {
	return e.Message
}

// PredicateOp 枚举了谓词树节点的类型。
type PredicateOp string

const (
	PredicateAnd      PredicateOp = "and"
	PredicateOr       PredicateOp = "or"
	PredicateEq       PredicateOp = "eq"
	PredicateContains PredicateOp = "contains"
)

// Predicate 是发往存储层的结构化过滤条件（AND/OR 树）。
// 叶子节点为单列条件，内部节点为 AND/OR 组合。
// 访问控制子句必须始终以顶层 AND 与文本子句组合，二者的 OR 不允许合并。
type Predicate struct {
	Op       PredicateOp
	Field    string
	Value    interface{}
	Children []*Predicate
}

// And 构造一个 AND 组合节点。
func And(children ...*Predicate) *Predicate {
	return &Predicate{Op: PredicateAnd, Children: children}
}

// Or 构造一个 OR 组合节点。
func Or(children ...*Predicate) *Predicate {
	return &Predicate{Op: PredicateOr, Children: children}
}

// Eq 构造一个等值叶子条件。
func Eq(field string, value interface{}) *Predicate {
	return &Predicate{Op: PredicateEq, Field: field, Value: value}
}

// Contains 构造一个子串包含叶子条件（大小写不敏感）。
func Contains(field string, value string) *Predicate {
	return &Predicate{Op: PredicateContains, Field: field, Value: value}
}

// ScoredImage 是打分后的候选图片。
// 不变式：Score 为 0 的候选永远不会出现在最终结果中。
type ScoredImage struct {
	Image
	Score int `json:"score"`
}

// SearchResult 是检索门面的输出。
// Total 是谓词粗筛的总命中数，不随打分后过滤而调整。
type SearchResult struct {
	Items          []ScoredImage
	Total          int64
	Pagination     Pagination
	Query          string
	AppliedOptions SearchOptions
}

// ImageResponseDTO 是图片记录的对外响应结构。
// url 是对外约定的字段名；imageUrl 为向后兼容保留；内部的打分字段不对外暴露。
type ImageResponseDTO struct {
	ID             uint       `json:"id"`
	URL            string     `json:"url"`
	ImageURL       string     `json:"imageUrl"`
	Prompt         string     `json:"prompt"`
	OriginalPrompt string     `json:"originalPrompt,omitempty"`
	Provider       string     `json:"provider"`
	Model          string     `json:"model"`
	Guidance       float64    `json:"guidance"`
	IsPublic       bool       `json:"isPublic"`
	Rating         int        `json:"rating"`
	Tags           []string   `json:"tags"`
	TaggedAt       *LocalTime `json:"taggedAt,omitempty"`
	CreatedAt      LocalTime  `json:"createdAt"`
	UserID         uint       `json:"userId"`
	Username       string     `json:"username"`
}

// PaginationInfo 是响应信封中的分页信息。
type PaginationInfo struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// SearchMeta 是响应信封中的诊断信息。
type SearchMeta struct {
	Query       string `json:"query"`
	Filter      string `json:"filter"`
	ResultCount int    `json:"resultCount"`
}

// SearchData 是响应信封的 data 部分。
type SearchData struct {
	Items      []ImageResponseDTO `json:"items"`
	Pagination PaginationInfo     `json:"pagination"`
	HasMore    bool               `json:"hasMore"`
	Meta       SearchMeta         `json:"meta"`
}

// SearchResponse 是检索接口的成功响应信封。
type SearchResponse struct {
	Success   bool       `json:"success"`
	Data      SearchData `json:"data"`
	RequestID string     `json:"requestId"`
	Duration  string     `json:"duration"`
}
