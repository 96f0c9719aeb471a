package usecase

import (
	"context"
	"net/http"
	"time"
)

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// セッショントークンを発行する約束
type SessionTokenIssuer interface {
	Issue(sessionID string, now time.Time) (token string, expiresAt time.Time, err error)
}

// handlerがJSONにして返す
type SessionOutput struct {
	SessionID   string `json:"session_id"`
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// SessionUsecase は新しいカートセッションを払い出す。
type SessionUsecase struct {
	idGen  IDGenerator
	issuer SessionTokenIssuer
	clock  Clock
}

func NewSessionUsecase(idGen IDGenerator, issuer SessionTokenIssuer, clock Clock) *SessionUsecase {
	return &SessionUsecase{idGen: idGen, issuer: issuer, clock: clock}
}

func (u *SessionUsecase) Start(ctx context.Context) (SessionOutput, error) {
	if err := ctx.Err(); err != nil {
		return SessionOutput{}, err
	}

	now := u.clock.Now()
	sid := u.idGen.NewID()

	token, expiresAt, err := u.issuer.Issue(sid, now)
	if err != nil {
		return SessionOutput{}, NewHTTPError(http.StatusInternalServerError, "token error")
	}

	return SessionOutput{
		SessionID:   sid,
		AccessToken: token,
		ExpiresIn:   int(expiresAt.Sub(now).Seconds()),
	}, nil
}
