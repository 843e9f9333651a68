package cli

import (
	"fmt"
	"strings"

	"github.com/punchcard-dev/punchcard/internal/core/models"
)

// resolveSession looks up a session by full id or unique id prefix.
func resolveSession(env *env, idOrPrefix string) (*models.Session, error) {
	if session, err := env.store.Get(idOrPrefix); err != nil {
		return nil, err
	} else if session != nil {
		return session, nil
	}

	sessions, err := env.db.ListSessions(env.owner())
	if err != nil {
		return nil, err
	}

	var match *models.Session
	for i := range sessions {
		if strings.HasPrefix(sessions[i].ID, idOrPrefix) {
			if match != nil {
				return nil, fmt.Errorf("session id %q is ambiguous", idOrPrefix)
			}
			match = &sessions[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no session matching %q", idOrPrefix)
	}
	return match, nil
}
