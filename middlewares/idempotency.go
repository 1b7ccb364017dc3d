package middlewares

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"apigen-backend/models"
)

const idempotencyHeader = "Idempotency-Key"

// Idempotency replays the stored response of a mutating request that
// carries an Idempotency-Key already seen with the same request hash.
// A nil db disables it.
func Idempotency(db *gorm.DB, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db == nil {
			return c.Next()
		}
		method := strings.ToUpper(c.Method())
		if method != fiber.MethodPost && method != fiber.MethodPut && method != fiber.MethodPatch && method != fiber.MethodDelete {
			return c.Next()
		}

		key := strings.TrimSpace(c.Get(idempotencyHeader))
		if key == "" {
			return c.Next()
		}
		if len(key) > 128 {
			return fiber.NewError(fiber.StatusBadRequest, "Idempotency-Key too long")
		}

		subject, _ := c.Locals("subject").(string)
		path := c.OriginalURL() // includes query string
		reqHash := requestHash(method, path, c.Body(), subject)

		// ---- Phase 1: read or create the pending key
		var existing models.IdempotencyKey
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("key = ?", key).First(&existing).Error; err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return fiber.NewError(fiber.StatusInternalServerError, "idempotency lookup failed")
				}
				rec := models.IdempotencyKey{
					Key:         key,
					RequestHash: reqHash,
					Method:      method,
					Path:        path,
					Subject:     subject,
				}
				if e2 := tx.Create(&rec).Error; e2 != nil {
					// Could be a unique race: read again
					if e3 := tx.Where("key = ?", key).First(&existing).Error; e3 != nil {
						return fiber.NewError(fiber.StatusInternalServerError, "idempotency create failed")
					}
				} else {
					existing = rec
				}
			}

			if existing.RequestHash != reqHash {
				return fiber.NewError(fiber.StatusConflict, "Idempotency-Key reuse with different request")
			}
			return nil
		})
		if err != nil {
			return err
		}

		if existing.ResponseStatus != 0 && existing.ResponseBody != nil {
			if existing.ContentType != "" {
				c.Set(fiber.HeaderContentType, existing.ContentType)
			}
			if existing.Disposition != "" {
				c.Set(fiber.HeaderContentDisposition, existing.Disposition)
			}
			c.Set("Idempotent-Replay", "true")
			return c.Status(existing.ResponseStatus).Send(existing.ResponseBody)
		}

		// ---- Phase 2: store successful responses only, so failures can be retried
		err = c.Next()
		status := c.Response().StatusCode()
		if err != nil || status < 200 || status >= 300 {
			if e := db.Where("key = ? AND response_status = 0", key).Delete(&models.IdempotencyKey{}).Error; e != nil {
				log.Warn().Err(e).Str("key", key).Msg("idempotency cleanup failed")
			}
			return err
		}

		now := time.Now().UTC()
		resp := c.Response().Body()
		blob := make([]byte, len(resp))
		copy(blob, resp)

		if e := db.Model(&models.IdempotencyKey{}).
			Where("key = ?", key).
			Updates(map[string]any{
				"response_status": status,
				"content_type":    string(c.Response().Header.ContentType()),
				"disposition":     string(c.Response().Header.Peek(fiber.HeaderContentDisposition)),
				"response_body":   blob,
				"completed_at":    &now,
			}).Error; e != nil {
			// best-effort: don't break the successful response
			log.Warn().Err(e).Str("key", key).Msg("idempotency store failed")
		}
		return nil
	}
}

// requestHash is the sha256 of method|path|body|subject.
func requestHash(method, path string, body []byte, subject string) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{'\n'})
	h.Write([]byte(path))
	h.Write([]byte{'\n'})
	h.Write(body)
	h.Write([]byte{'\n'})
	h.Write([]byte(subject))
	return hex.EncodeToString(h.Sum(nil))
}
