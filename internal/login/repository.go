package login

import (
	"context"

	"github.com/udisondev/rs2go/internal/model"
)

// ProfileRepository определяет интерфейс для работы с профилями.
// Используется для dependency injection в тестах.
type ProfileRepository interface {
	// Profile возвращает профиль по нормализованному имени.
	// Возвращает nil, nil если профиль не найден.
	Profile(ctx context.Context, username string) (*model.Profile, error)

	// CreateProfile сохраняет новый профиль. Если профиль уже создан
	// параллельным логином, возвращает существующий.
	CreateProfile(ctx context.Context, p *model.Profile) (*model.Profile, error)

	// SetBanned и SetMuted меняют флаги модерации.
	SetBanned(ctx context.Context, username string, banned bool) error
	SetMuted(ctx context.Context, username string, muted bool) error

	// TouchLogin обновляет last_login и last_ip при успешном логине.
	TouchLogin(ctx context.Context, username, ip string) error
}
