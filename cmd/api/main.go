package main

import (
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/server"
	"app/internal/usecase"
	auth "app/internal/usecase/auth_usecase"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func (i *jwtIssuer) Issue(userID string, tokenVersion int, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub": userID,
		"tv":  tokenVersion,
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	// .envはローカル用。本番は環境変数で渡すので無くてもよい。
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		panic(err)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Country{},
		&model.Order{},
		&model.Submission{},
	); err != nil {
		panic(err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	rtRepo := infraRepo.NewRefreshTokenRepository(gormDB)
	countryRepo := infraRepo.NewCountryGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	submissionRepo := infraRepo.NewSubmissionGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}

	//bcrypt（会員登録：Hash / ログイン：Verify）
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()

	//JWT issuer
	issuer := &jwtIssuer{
		secret:    []byte(cfg.JWTSecret),
		accessTTL: 15 * time.Minute,
	}

	//refresh TTL
	refreshTTL := 14 * 24 * time.Hour

	//Usecase生成
	registerUC := auth.NewRegisterUserUsecase(userRepo, countryRepo, hasher, idGen, clock)
	loginUC := auth.NewLoginUsecase(userRepo, rtRepo, verifier, issuer, idGen, clock, refreshTTL)
	refreshUC := auth.NewRefreshUsecase(userRepo, rtRepo, issuer, idGen, clock, refreshTTL)
	logoutUC := auth.NewLogoutUsecase(userRepo, rtRepo, clock)
	meUC := auth.NewMeUsecase(userRepo)

	orderUC := usecase.NewOrderUsecase(orderRepo, submissionRepo, countryRepo, userRepo, idGen, clock)
	submissionUC := usecase.NewSubmissionUsecase(txManager, orderRepo, submissionRepo, idGen, clock)
	dashboardUC := usecase.NewDashboardUsecase(orderRepo, submissionRepo, userRepo, countryRepo, clock)
	countryUC := usecase.NewCountryUsecase(countryRepo)

	//Handler生成
	authH := handler.NewAuthHandler(registerUC, loginUC, refreshUC, logoutUC, meUC, refreshTTL)
	orderH := handler.NewOrderHandler(orderUC)
	submissionH := handler.NewSubmissionHandler(submissionUC)
	dashboardH := handler.NewDashboardHandler(dashboardUC)
	countryH := handler.NewCountryHandler(countryUC)

	//Server起動
	e := server.New(server.Deps{
		Cfg:               cfg,
		AuthHandler:       authH,
		OrderHandler:      orderH,
		SubmissionHandler: submissionH,
		DashboardHandler:  dashboardH,
		CountryHandler:    countryH,
		UserRepo:          userRepo,
	})

	if err := server.Start(e, cfg.Port); err != nil {
		panic(err)
	}
}
