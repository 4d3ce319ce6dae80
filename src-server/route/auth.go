package route

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shivam044/COMP-313-002-Group4-W25-API/src-server/metric"
	"github.com/shivam044/COMP-313-002-Group4-W25-API/src-server/model"
	"github.com/shivam044/COMP-313-002-Group4-W25-API/src-server/utils"
)

// Session issuance/revocation. Identity verification itself lives outside
// this service; a caller that can name an existing user gets a session.
func Auth(muxer *http.ServeMux, as *utils.AppState) {
	type createSessionReqBody struct {
		UserID string `json:"userId"`
	}

	muxer.HandleFunc("POST /auth/session",
		func(w http.ResponseWriter, r *http.Request) {
			// runs outside AuthMiddleware, so it counts itself
			metric.CountRequest(r.Method, r.URL.Path)

			var reqBody createSessionReqBody
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Invalid request body"))
				return
			}
			if reqBody.UserID == "" {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Please provide a user ID"))
				return
			}

			exists, err := as.BunDB.
				NewSelect().
				Model((*model.User)(nil)).
				Where("id = ?", reqBody.UserID).
				Exists(r.Context())
			switch {
			case err != nil:
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't check if user exists"))
				slog.Error("can't check if user exists", "error", err)
				return
			case !exists:
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte("user not found"))
				return
			}

			sessionModel := model.Session{
				Secret:           uuid.NewString(),
				UserID:           reqBody.UserID,
				CreatedAtUnixUTC: time.Now().UTC().Unix(),
			}
			if _, err := as.BunDB.
				NewInsert().
				Model(&sessionModel).
				Exec(r.Context()); err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't create session"))
				slog.Error("can't create session", "error", err)
				return
			}

			http.SetCookie(w, &http.Cookie{
				Name:     SessionSecretCookieName,
				Value:    sessionModel.Secret,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"message":"Session created"}`))
		})

	muxer.HandleFunc("DELETE /auth/session", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			sessionModel, ok := r.Context().Value(SessionCtxKey).(*model.Session)
			if !ok {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't get session from middleware"))
				return
			}

			if _, err := as.BunDB.
				NewDelete().
				Model((*model.Session)(nil)).
				Where("secret = ?", sessionModel.Secret).
				Exec(r.Context()); err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't revoke session"))
				slog.Error("can't revoke session", "error", err)
				return
			}

			http.SetCookie(w, &http.Cookie{
				Name:   SessionSecretCookieName,
				Value:  "",
				Path:   "/",
				MaxAge: -1,
			})
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"message":"Session revoked"}`))
		}))
}
