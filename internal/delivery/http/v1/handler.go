package v1

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"sunushop-backend/internal/domain"
)

const dateLayout = "2006-01-02"

func currentUser(r *http.Request) (*domain.User, error) {
	user, ok := domain.UserFromContext(r.Context())
	if !ok {
		return nil, domain.NewUnauthorizedError("Authentification requise")
	}
	return user, nil
}

func pathID(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		return "", domain.NewFieldErrors(map[string]string{"id": "Identifiant manquant"})
	}
	return id, nil
}

func queryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return def
	}
	return v
}

func queryBool(r *http.Request, key string) *bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	if err != nil {
		return nil
	}
	return &v
}

// parseDateRange reads optional start/end query params (YYYY-MM-DD).
func parseDateRange(r *http.Request) (time.Time, time.Time, error) {
	var start, end time.Time
	fields := map[string]string{}
	for key, dst := range map[string]*time.Time{"start": &start, "end": &end} {
		raw := r.URL.Query().Get(key)
		if raw == "" {
			continue
		}
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			fields[key] = "Format attendu : AAAA-MM-JJ"
			continue
		}
		*dst = t
	}
	if len(fields) > 0 {
		return time.Time{}, time.Time{}, domain.NewFieldErrors(fields)
	}
	return start, end, nil
}
