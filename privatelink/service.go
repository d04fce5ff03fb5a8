package privatelink

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"Gin_postgres_redis_seller_admin/models"
)

const (
	MinValidHours = 1
	MaxValidHours = 72

	// 16 字节 = 128 bit 随机数，窗口期内枚举不可行
	tokenBytes          = 16
	maxGenerateAttempts = 5
)

// Store 持久层契约。ConsumeToken 必须是条件更新
// （UPDATE ... WHERE token=? AND used=false AND expires_at>?）：
// 并发兑换时只有一个请求能拿到 true，原子性在存储层，不靠进程内锁
type Store interface {
	// CreateToken 落库；token 唯一键冲突时返回 ErrDuplicateToken
	CreateToken(ctx context.Context, t *models.AccessToken) error
	// GetToken 查不到时返回 (nil, nil)；存储故障才返回 err
	GetToken(ctx context.Context, token string) (*models.AccessToken, error)
	ConsumeToken(ctx context.Context, token string, now time.Time) (bool, error)
	// ReleaseToken 兑换动作失败后的回滚：used 置回 false
	ReleaseToken(ctx context.Context, token string) error
}

// TargetResolver 把 token 指向的目标解析成对外安全的上下文
// （员工姓名/部门、商品名），不含密码哈希等敏感字段
type TargetResolver interface {
	Resolve(ctx context.Context, t *models.AccessToken) (any, error)
}

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type Service struct {
	store    Store
	resolver TargetResolver
	clock    Clock
}

// NewService resolver 和 clock 可为 nil（不解析目标 / 用系统时钟）
func NewService(store Store, resolver TargetResolver, clock Clock) *Service {
	if clock == nil {
		clock = systemClock{}
	}
	return &Service{store: store, resolver: resolver, clock: clock}
}

type IssueParams struct {
	TargetType     TargetType
	TargetUserName string
	ValidHours     int
	TargetID       *uint
	CreatedBy      string
}

// Issue 签发一条私有链接 token。入参校验在任何落库之前；
// validHours 超出 1..72 直接拒绝，不信任前端的 clamp
func (s *Service) Issue(ctx context.Context, p IssueParams) (*models.AccessToken, error) {
	if _, ok := ParseTargetType(string(p.TargetType)); !ok {
		return nil, fmt.Errorf("%w: unknown target type %q", ErrInvalidInput, p.TargetType)
	}
	if strings.TrimSpace(p.TargetUserName) == "" {
		return nil, fmt.Errorf("%w: empty target user name", ErrInvalidInput)
	}
	if p.ValidHours < MinValidHours || p.ValidHours > MaxValidHours {
		return nil, fmt.Errorf("%w: validHours %d out of range [%d,%d]",
			ErrInvalidInput, p.ValidHours, MinValidHours, MaxValidHours)
	}

	now := s.clock.Now()
	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		tok, err := newToken()
		if err != nil {
			return nil, err
		}
		t := &models.AccessToken{
			Token:          tok,
			TargetType:     string(p.TargetType),
			TargetUserName: p.TargetUserName,
			TargetID:       p.TargetID,
			IssuedAt:       now,
			ExpiresAt:      now.Add(time.Duration(p.ValidHours) * time.Hour),
			CreatedBy:      p.CreatedBy,
		}
		err = s.store.CreateToken(ctx, t)
		if errors.Is(err, ErrDuplicateToken) {
			// 128 bit 撞上唯一键几乎不可能，重试换新随机数
			continue
		}
		if err != nil {
			return nil, err
		}
		return t, nil
	}
	return nil, fmt.Errorf("privatelink: token generation collided %d times", maxGenerateAttempts)
}

func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

type Validation struct {
	Valid  bool
	Reason Reason
	Token  *models.AccessToken
	Target any
}

// Validate 纯读校验，可反复调用，不动 token 状态。
// 返回 err != nil 只代表存储层故障，调用方应按可重试处理
func (s *Service) Validate(ctx context.Context, token, targetUserName string) (Validation, error) {
	t, err := s.store.GetToken(ctx, token)
	if err != nil {
		return Validation{}, err
	}
	if t == nil || t.TargetUserName != targetUserName {
		return Validation{Reason: ReasonInvalid}, nil
	}
	if t.Used {
		return Validation{Reason: ReasonAlreadyUsed}, nil
	}
	if t.IsExpired(s.clock.Now()) {
		return Validation{Reason: ReasonExpired}, nil
	}
	v := Validation{Valid: true, Token: t}
	if s.resolver != nil {
		target, err := s.resolver.Resolve(ctx, t)
		if err != nil {
			return Validation{}, err
		}
		v.Target = target
	}
	return v, nil
}

// Action 兑换绑定的业务动作（建员工 / 建账号 / 存变体）
type Action func(ctx context.Context, t *models.AccessToken) error

// Redeem 恰好一次地消费 token：先原子占用（条件更新），占用成功才执行
// action。action 失败则回滚 used 标志，同一链接在过期前仍可重试。
// 并发兑换时其余请求拿到 ErrAlreadyUsed / ErrExpired
func (s *Service) Redeem(ctx context.Context, token, targetUserName string, action Action) (*models.AccessToken, error) {
	t, err := s.store.GetToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if t == nil || t.TargetUserName != targetUserName {
		return nil, ErrInvalidLink
	}
	now := s.clock.Now()
	if t.Used {
		return nil, ErrAlreadyUsed
	}
	if t.IsExpired(now) {
		return nil, ErrExpired
	}

	ok, err := s.store.ConsumeToken(ctx, token, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		// 条件更新没打中：并发请求先用了，或读后刚好过期
		cur, rerr := s.store.GetToken(ctx, token)
		if rerr == nil && cur != nil && !cur.Used && cur.IsExpired(now) {
			return nil, ErrExpired
		}
		return nil, ErrAlreadyUsed
	}

	usedAt := now
	t.Used = true
	t.UsedAt = &usedAt

	if err := action(ctx, t); err != nil {
		if relErr := s.store.ReleaseToken(ctx, token); relErr != nil {
			// 回滚失败：宁可链接留在已消费态，也不能让动作跑两次
			log.Printf("privatelink: release after failed action: %v", relErr)
		} else {
			t.Used = false
			t.UsedAt = nil
		}
		return nil, &ActionError{Err: err}
	}
	return t, nil
}
