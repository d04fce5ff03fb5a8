package privatelink

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"Gin_postgres_redis_seller_admin/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore 带互斥锁的内存实现，ConsumeToken 和数据库条件更新一样是 CAS
type memStore struct {
	mu     sync.Mutex
	tokens map[string]*models.AccessToken
}

func newMemStore() *memStore {
	return &memStore{tokens: map[string]*models.AccessToken{}}
}

func (m *memStore) CreateToken(ctx context.Context, t *models.AccessToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tokens[t.Token]; ok {
		return ErrDuplicateToken
	}
	cp := *t
	m.tokens[t.Token] = &cp
	return nil
}

func (m *memStore) GetToken(ctx context.Context, token string) (*models.AccessToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[token]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (m *memStore) ConsumeToken(ctx context.Context, token string, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[token]
	if !ok || t.Used || !now.Before(t.ExpiresAt) {
		return false, nil
	}
	t.Used = true
	usedAt := now
	t.UsedAt = &usedAt
	return true, nil
}

func (m *memStore) ReleaseToken(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[token]
	if !ok || !t.Used {
		return errors.New("token not in consumed state")
	}
	t.Used = false
	t.UsedAt = nil
	return nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func newTestService() (*Service, *memStore, *fakeClock) {
	store := newMemStore()
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	return NewService(store, nil, clock), store, clock
}

func TestIssueRejectsInvalidInput(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	cases := []struct {
		name string
		p    IssueParams
	}{
		{"unknown target type", IssueParams{TargetType: "refundApproval", TargetUserName: "u", ValidHours: 2}},
		{"empty target user", IssueParams{TargetType: TargetEmployeeSignup, TargetUserName: "  ", ValidHours: 2}},
		{"hours too low", IssueParams{TargetType: TargetEmployeeSignup, TargetUserName: "u", ValidHours: 0}},
		{"hours too high", IssueParams{TargetType: TargetEmployeeSignup, TargetUserName: "u", ValidHours: 73}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Issue(ctx, tc.p)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestIssueSetsWindowAndState(t *testing.T) {
	svc, _, clock := newTestService()

	tok, err := svc.Issue(context.Background(), IssueParams{
		TargetType:     TargetEmployeeSignup,
		TargetUserName: "61010131",
		ValidHours:     2,
		CreatedBy:      "admin",
	})
	require.NoError(t, err)

	assert.Len(t, tok.Token, 32) // 16 bytes hex
	assert.False(t, tok.Used)
	assert.Nil(t, tok.UsedAt)
	assert.Equal(t, clock.Now(), tok.IssuedAt)
	assert.Equal(t, clock.Now().Add(2*time.Hour), tok.ExpiresAt)
	assert.True(t, tok.ExpiresAt.After(tok.IssuedAt))
}

func TestIssuedTokensAreUnique(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		tok, err := svc.Issue(ctx, IssueParams{
			TargetType:     TargetEmployeeSignup,
			TargetUserName: "61010131",
			ValidHours:     1,
		})
		require.NoError(t, err)
		assert.False(t, seen[tok.Token])
		seen[tok.Token] = true
	}
}

// collidingStore 先报几次唯一键冲突，验证 Issue 换随机数重试
type collidingStore struct {
	*memStore
	collisions int
}

func (s *collidingStore) CreateToken(ctx context.Context, t *models.AccessToken) error {
	if s.collisions > 0 {
		s.collisions--
		return ErrDuplicateToken
	}
	return s.memStore.CreateToken(ctx, t)
}

func TestIssueRetriesOnCollision(t *testing.T) {
	store := &collidingStore{memStore: newMemStore(), collisions: 2}
	svc := NewService(store, nil, nil)

	tok, err := svc.Issue(context.Background(), IssueParams{
		TargetType:     TargetVariantUpload,
		TargetUserName: "vendor-a",
		ValidHours:     1,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tok.Token)
}

func TestIssueGivesUpAfterTooManyCollisions(t *testing.T) {
	store := &collidingStore{memStore: newMemStore(), collisions: 100}
	svc := NewService(store, nil, nil)

	_, err := svc.Issue(context.Background(), IssueParams{
		TargetType:     TargetVariantUpload,
		TargetUserName: "vendor-a",
		ValidHours:     1,
	})
	assert.Error(t, err)
}

func issueOne(t *testing.T, svc *Service, hours int) *models.AccessToken {
	t.Helper()
	tok, err := svc.Issue(context.Background(), IssueParams{
		TargetType:     TargetEmployeeSignup,
		TargetUserName: "61010131",
		ValidHours:     hours,
	})
	require.NoError(t, err)
	return tok
}

func TestValidateBoundaries(t *testing.T) {
	svc, store, clock := newTestService()
	ctx := context.Background()
	tok := issueOne(t, svc, 1)

	t.Run("unknown token", func(t *testing.T) {
		v, err := svc.Validate(ctx, "deadbeef", "61010131")
		require.NoError(t, err)
		assert.False(t, v.Valid)
		assert.Equal(t, ReasonInvalid, v.Reason)
	})

	t.Run("wrong user collapses to same reason", func(t *testing.T) {
		v, err := svc.Validate(ctx, tok.Token, "othername")
		require.NoError(t, err)
		assert.False(t, v.Valid)
		assert.Equal(t, ReasonInvalid, v.Reason)
	})

	t.Run("fresh token valid", func(t *testing.T) {
		v, err := svc.Validate(ctx, tok.Token, "61010131")
		require.NoError(t, err)
		assert.True(t, v.Valid)
	})

	t.Run("used token", func(t *testing.T) {
		ok, err := store.ConsumeToken(ctx, tok.Token, clock.Now())
		require.NoError(t, err)
		require.True(t, ok)

		v, err := svc.Validate(ctx, tok.Token, "61010131")
		require.NoError(t, err)
		assert.False(t, v.Valid)
		assert.Equal(t, ReasonAlreadyUsed, v.Reason)
	})

	t.Run("expired token", func(t *testing.T) {
		tok2 := issueOne(t, svc, 1)
		clock.Set(tok2.ExpiresAt.Add(time.Second))
		v, err := svc.Validate(ctx, tok2.Token, "61010131")
		require.NoError(t, err)
		assert.False(t, v.Valid)
		assert.Equal(t, ReasonExpired, v.Reason)
	})
}

func TestValidateIsIdempotent(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	tok := issueOne(t, svc, 1)

	// 页面轮询会反复调用，不能影响后续兑换
	for i := 0; i < 10; i++ {
		v, err := svc.Validate(ctx, tok.Token, "61010131")
		require.NoError(t, err)
		assert.True(t, v.Valid)
	}

	_, err := svc.Redeem(ctx, tok.Token, "61010131", func(context.Context, *models.AccessToken) error { return nil })
	assert.NoError(t, err)
}

func TestExpiryBoundary(t *testing.T) {
	svc, _, clock := newTestService()
	ctx := context.Background()
	tok := issueOne(t, svc, 1)

	clock.Set(tok.ExpiresAt.Add(-time.Second))
	v, err := svc.Validate(ctx, tok.Token, "61010131")
	require.NoError(t, err)
	assert.True(t, v.Valid)

	clock.Set(tok.ExpiresAt) // now == expiresAt 已经失效
	v, err = svc.Validate(ctx, tok.Token, "61010131")
	require.NoError(t, err)
	assert.Equal(t, ReasonExpired, v.Reason)

	clock.Set(tok.ExpiresAt.Add(time.Second))
	_, err = svc.Redeem(ctx, tok.Token, "61010131", func(context.Context, *models.AccessToken) error { return nil })
	assert.ErrorIs(t, err, ErrExpired)
}

func TestRedeemWrongUser(t *testing.T) {
	svc, _, _ := newTestService()
	tok := issueOne(t, svc, 1)

	_, err := svc.Redeem(context.Background(), tok.Token, "othername",
		func(context.Context, *models.AccessToken) error { return nil })
	assert.ErrorIs(t, err, ErrInvalidLink)
}

func TestRedeemExactlyOnceUnderRace(t *testing.T) {
	svc, _, _ := newTestService()
	tok := issueOne(t, svc, 1)

	const n = 50
	var wg sync.WaitGroup
	var succeeded, alreadyUsed int64
	var mu sync.Mutex
	var actionRuns int

	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.Redeem(context.Background(), tok.Token, "61010131",
				func(context.Context, *models.AccessToken) error {
					mu.Lock()
					actionRuns++
					mu.Unlock()
					return nil
				})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrAlreadyUsed):
				alreadyUsed++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), succeeded)
	assert.Equal(t, int64(n-1), alreadyUsed)
	assert.Equal(t, 1, actionRuns)
}

func TestRedeemRollsBackOnActionFailure(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()
	tok := issueOne(t, svc, 1)

	boom := errors.New("downstream down")
	_, err := svc.Redeem(ctx, tok.Token, "61010131",
		func(context.Context, *models.AccessToken) error { return boom })

	var ae *ActionError
	require.ErrorAs(t, err, &ae)
	assert.ErrorIs(t, ae.Err, boom)

	// used 已回滚，链接还能用
	cur, err := store.GetToken(ctx, tok.Token)
	require.NoError(t, err)
	assert.False(t, cur.Used)
	assert.Nil(t, cur.UsedAt)

	_, err = svc.Redeem(ctx, tok.Token, "61010131",
		func(context.Context, *models.AccessToken) error { return nil })
	assert.NoError(t, err)
}

func TestRedeemMarksUsedExactlyOnce(t *testing.T) {
	svc, store, clock := newTestService()
	ctx := context.Background()
	tok := issueOne(t, svc, 2)

	got, err := svc.Redeem(ctx, tok.Token, "61010131",
		func(context.Context, *models.AccessToken) error { return nil })
	require.NoError(t, err)
	assert.True(t, got.Used)
	require.NotNil(t, got.UsedAt)
	assert.Equal(t, clock.Now(), *got.UsedAt)

	cur, _ := store.GetToken(ctx, tok.Token)
	assert.True(t, cur.Used)

	_, err = svc.Redeem(ctx, tok.Token, "61010131",
		func(context.Context, *models.AccessToken) error { return nil })
	assert.ErrorIs(t, err, ErrAlreadyUsed)
}

// 对应手册里的完整流程：签发 → 校验 → 兑换 → 再兑换被拒 → 换名字校验被拒
func TestSignupLinkLifecycle(t *testing.T) {
	svc, _, clock := newTestService()
	ctx := context.Background()

	tok, err := svc.Issue(ctx, IssueParams{
		TargetType:     TargetEmployeeSignup,
		TargetUserName: "61010131",
		ValidHours:     2,
	})
	require.NoError(t, err)

	clock.Set(clock.Now().Add(time.Hour))
	v, err := svc.Validate(ctx, tok.Token, "61010131")
	require.NoError(t, err)
	assert.True(t, v.Valid)

	created := false
	_, err = svc.Redeem(ctx, tok.Token, "61010131",
		func(context.Context, *models.AccessToken) error { created = true; return nil })
	require.NoError(t, err)
	assert.True(t, created)

	_, err = svc.Redeem(ctx, tok.Token, "61010131",
		func(context.Context, *models.AccessToken) error { return nil })
	assert.ErrorIs(t, err, ErrAlreadyUsed)

	v, err = svc.Validate(ctx, tok.Token, "othername")
	require.NoError(t, err)
	assert.False(t, v.Valid)
	assert.Equal(t, ReasonInvalid, v.Reason)
}
