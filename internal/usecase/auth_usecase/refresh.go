package auth

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	"app/internal/repository"
)

// 期限切れ・失効済み・存在しないトークン
var ErrInvalidRefreshToken = errors.New("invalid refresh token")

// 使用済みトークンの再提示（盗難の疑い）
var ErrRefreshTokenReused = errors.New("refresh token reused")

type RefreshInput struct {
	RefreshTokenPlain string
	UserAgent         string
}

type RefreshOutput struct {
	Token JwtAccessToken `json:"token"`
}

type RefreshSideEffect struct {
	PlainRefreshToken string
}

// RefreshUsecaseはリフレッシュトークンのローテーション。
// 1回使ったトークンは必ず捨てて、新しいトークンに差し替える。
type RefreshUsecase struct {
	userRepo   repository.UserRepository
	rtRepo     repository.RefreshTokenRepository
	issuer     AccessTokenIssuer
	idGen      IDGenerator
	clock      Clock
	refreshTTL time.Duration
}

func NewRefreshUsecase(
	userRepo repository.UserRepository,
	rtRepo repository.RefreshTokenRepository,
	issuer AccessTokenIssuer,
	idGen IDGenerator,
	clock Clock,
	refreshTTL time.Duration,
) *RefreshUsecase {
	return &RefreshUsecase{
		userRepo:   userRepo,
		rtRepo:     rtRepo,
		issuer:     issuer,
		idGen:      idGen,
		clock:      clock,
		refreshTTL: refreshTTL,
	}
}

func (u *RefreshUsecase) Execute(ctx context.Context, in RefreshInput) (RefreshOutput, RefreshSideEffect, error) {
	var out RefreshOutput
	var side RefreshSideEffect

	if in.RefreshTokenPlain == "" {
		return out, side, ErrInvalidRefreshToken
	}

	rt, err := u.rtRepo.FindByTokenHash(ctx, hashRefreshToken(in.RefreshTokenPlain))
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return out, side, ErrInvalidRefreshToken
		}
		return out, side, err
	}

	now := u.clock.Now()

	//期限切れ
	if rt.ExpiresAt.Before(now) {
		_ = u.rtRepo.Revoke(ctx, rt.ID, now)
		return out, side, ErrInvalidRefreshToken
	}

	//失効済み
	if rt.RevokedAt != nil {
		return out, side, ErrInvalidRefreshToken
	}

	//使用済みが来たらreplay。全端末を強制ログアウトさせる。
	if rt.UsedAt != nil {
		_ = u.rtRepo.DeleteAllByUserID(ctx, rt.UserID)
		_ = u.userRepo.IncrementTokenVersion(ctx, rt.UserID)
		return out, side, ErrRefreshTokenReused
	}

	//UserAgent違いも再認証扱い
	if in.UserAgent != "" && rt.UserAgent != "" && in.UserAgent != rt.UserAgent {
		_ = u.rtRepo.DeleteAllByUserID(ctx, rt.UserID)
		_ = u.userRepo.IncrementTokenVersion(ctx, rt.UserID)
		return out, side, ErrRefreshTokenReused
	}

	user, err := u.userRepo.FindByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return out, side, ErrInvalidRefreshToken
		}
		return out, side, err
	}
	if !user.IsActive {
		return out, side, ErrUserInactive
	}

	//旧トークンをusedにする。0件更新なら同時リフレッシュの負け側。
	if err := u.rtRepo.MarkUsed(ctx, rt.ID, now); err != nil {
		_ = u.rtRepo.DeleteAllByUserID(ctx, rt.UserID)
		return out, side, ErrRefreshTokenReused
	}

	//新トークン発行
	newPlain, err := generateSecureToken(32)
	if err != nil {
		return out, side, err
	}

	newRT := &model.RefreshToken{
		ID:        u.idGen.NewID(),
		UserID:    user.ID,
		TokenHash: hashRefreshToken(newPlain),
		UserAgent: in.UserAgent,
		ExpiresAt: now.Add(u.refreshTTL),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := u.rtRepo.Create(ctx, newRT); err != nil {
		return out, side, err
	}

	//Access再発行
	accessToken, accessExp, err := u.issuer.Issue(user.ID, user.TokenVersion, now)
	if err != nil {
		return out, side, err
	}

	out.Token = JwtAccessToken{
		AccessToken:  accessToken,
		ExpiresIn:    int(accessExp.Sub(now).Seconds()),
		TokenVersion: user.TokenVersion,
	}
	side.PlainRefreshToken = newPlain
	return out, side, nil
}
