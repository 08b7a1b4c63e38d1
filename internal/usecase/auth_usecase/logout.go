package auth

import (
	"context"
	"errors"

	"app/internal/repository"
)

// LogoutUsecaseは提示されたリフレッシュトークンを失効させる。
type LogoutUsecase struct {
	userRepo repository.UserRepository
	rtRepo   repository.RefreshTokenRepository
	clock    Clock
}

func NewLogoutUsecase(
	userRepo repository.UserRepository,
	rtRepo repository.RefreshTokenRepository,
	clock Clock,
) *LogoutUsecase {
	return &LogoutUsecase{
		userRepo: userRepo,
		rtRepo:   rtRepo,
		clock:    clock,
	}
}

// Executeは1端末分のログアウト。
func (u *LogoutUsecase) Execute(ctx context.Context, refreshTokenPlain string) error {
	if refreshTokenPlain == "" {
		return ErrInvalidRefreshToken
	}

	rt, err := u.rtRepo.FindByTokenHash(ctx, hashRefreshToken(refreshTokenPlain))
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return ErrInvalidRefreshToken
		}
		return err
	}

	return u.rtRepo.Revoke(ctx, rt.ID, u.clock.Now())
}

// ExecuteAllは全端末ログアウト。
// token_versionを+1して既発行のアクセストークンも無効化する。
func (u *LogoutUsecase) ExecuteAll(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrInvalidRefreshToken
	}

	if err := u.userRepo.IncrementTokenVersion(ctx, userID); err != nil {
		return err
	}
	return u.rtRepo.DeleteAllByUserID(ctx, userID)
}
