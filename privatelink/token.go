package privatelink

import "errors"

// TargetType 私有链接允许的目标动作种类（封闭集合）
type TargetType string

const (
	TargetEmployeeSignup          TargetType = "employeeSignup"
	TargetUserCreationForEmployee TargetType = "userCreationForEmployee"
	TargetVariantUpload           TargetType = "variantUpload"
)

var targetTypes = map[TargetType]bool{
	TargetEmployeeSignup:          true,
	TargetUserCreationForEmployee: true,
	TargetVariantUpload:           true,
}

// ParseTargetType 校验字符串是否为已知类型；未知类型一律拒绝，不做默认回退
func ParseTargetType(s string) (TargetType, bool) {
	tt := TargetType(s)
	return tt, targetTypes[tt]
}

// Reason 校验失败原因。NotFound 和用户名不匹配合并成 ReasonInvalid，
// 避免对外泄露 token 是否存在
type Reason string

const (
	ReasonInvalid     Reason = "invalid"
	ReasonAlreadyUsed Reason = "alreadyUsed"
	ReasonExpired     Reason = "expired"
)

var (
	ErrInvalidInput = errors.New("privatelink: invalid input")
	ErrInvalidLink  = errors.New("privatelink: link invalid")
	ErrAlreadyUsed  = errors.New("privatelink: link already used")
	ErrExpired      = errors.New("privatelink: link expired")

	// Store 在 token 唯一键冲突时返回，Issue 会换随机数重试
	ErrDuplicateToken = errors.New("privatelink: duplicate token")
)

// ActionError 包住兑换动作本身的失败；此时 token 已回滚，链接仍可重试
type ActionError struct {
	Err error
}

func (e *ActionError) Error() string {
	return "privatelink: bound action failed: " + e.Err.Error()
}

func (e *ActionError) Unwrap() error { return e.Err }
