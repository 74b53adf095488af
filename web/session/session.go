// Package session stores the signed-in account and flash messages in the
// cookie session.
package session

import (
	"encoding/gob"

	"github.com/techinsight/blog/web/entity"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	adminIdKey  = "admin_id"
	userIdKey   = "user_id"
	userTypeKey = "user_type"
	usernameKey = "username"
)

func init() {
	gob.Register(entity.Flash{})
}

// SetAdmin signs in an admin account, replacing any previous identity.
func SetAdmin(c *gin.Context, id int, username string) error {
	s := sessions.Default(c)
	s.Delete(userIdKey)
	s.Set(adminIdKey, id)
	s.Set(userTypeKey, string(entity.RoleAdmin))
	s.Set(usernameKey, username)
	return s.Save()
}

// SetUser signs in a regular account, replacing any previous identity.
func SetUser(c *gin.Context, id int, username string) error {
	s := sessions.Default(c)
	s.Delete(adminIdKey)
	s.Set(userIdKey, id)
	s.Set(userTypeKey, string(entity.RoleUser))
	s.Set(usernameKey, username)
	return s.Save()
}

// GetIdentity reads the identity from the session, admin first.
func GetIdentity(c *gin.Context) entity.Identity {
	s := sessions.Default(c)
	username, _ := s.Get(usernameKey).(string)
	if id, ok := s.Get(adminIdKey).(int); ok {
		return entity.Identity{UserId: id, Username: username, Role: entity.RoleAdmin}
	}
	if id, ok := s.Get(userIdKey).(int); ok {
		return entity.Identity{UserId: id, Username: username, Role: entity.RoleUser}
	}
	return entity.Identity{}
}

func SetMaxAge(c *gin.Context, maxAge int) error {
	s := sessions.Default(c)
	s.Options(sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
	})
	return s.Save()
}

// AddFlash queues a message for the next rendered page.
func AddFlash(c *gin.Context, category, message string) {
	s := sessions.Default(c)
	s.AddFlash(entity.Flash{Category: category, Message: message})
	_ = s.Save()
}

// Flashes pops every queued message.
func Flashes(c *gin.Context) []entity.Flash {
	s := sessions.Default(c)
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = s.Save()
	flashes := make([]entity.Flash, 0, len(raw))
	for _, f := range raw {
		if flash, ok := f.(entity.Flash); ok {
			flashes = append(flashes, flash)
		}
	}
	return flashes
}

// ClearSession drops the identity. Pending flashes survive so a logout can
// still show its message.
func ClearSession(c *gin.Context) error {
	s := sessions.Default(c)
	s.Delete(adminIdKey)
	s.Delete(userIdKey)
	s.Delete(userTypeKey)
	s.Delete(usernameKey)
	return s.Save()
}
