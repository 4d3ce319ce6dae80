package route

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shivam044/COMP-313-002-Group4-W25-API/src-server/event"
	"github.com/shivam044/COMP-313-002-Group4-W25-API/src-server/model"
	"github.com/shivam044/COMP-313-002-Group4-W25-API/src-server/utils"
)

// Thin validate-then-persist passthroughs for the records events can point
// at. The calendar subsystem only ever reads these by id.
func Entities(muxer *http.ServeMux, as *utils.AppState) {
	validator := event.NewValidator(as.BunDB)

	type createUserReqBody struct {
		UserName  string `json:"userName"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Role      string `json:"role"`
	}

	muxer.HandleFunc("POST /users", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			var reqBody createUserReqBody
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Invalid request body"))
				return
			}

			userModel := model.User{
				ID:        uuid.NewString(),
				UserName:  reqBody.UserName,
				FirstName: reqBody.FirstName,
				LastName:  reqBody.LastName,
				Email:     reqBody.Email,
				Role:      model.UserRole(strings.ToLower(reqBody.Role)),
			}
			if err := userModel.Upsert(r.Context(), as.BunDB); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Can't create user"))
				slog.Warn("can't create user", "error", err)
				return
			}

			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(userModel.ID))
		}))

	type userRespBody struct {
		ID        string `json:"id"`
		UserName  string `json:"userName"`
		FirstName string `json:"firstName,omitempty"`
		LastName  string `json:"lastName,omitempty"`
		Email     string `json:"email,omitempty"`
		Role      string `json:"role,omitempty"`
	}

	muxer.HandleFunc("GET /users/{id}", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			userModel := new(model.User)
			exists, err := as.BunDB.
				NewSelect().
				Model(userModel).
				Where("id = ?", r.PathValue("id")).
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
			if err := as.BunDB.
				NewSelect().
				Model(userModel).
				Where("id = ?", r.PathValue("id")).
				Scan(r.Context()); err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't get user"))
				slog.Error("can't get user", "error", err)
				return
			}

			respBodyJson, err := json.Marshal(userRespBody{
				ID:        userModel.ID,
				UserName:  userModel.UserName,
				FirstName: userModel.FirstName,
				LastName:  userModel.LastName,
				Email:     userModel.Email,
				Role:      string(userModel.Role),
			})
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't marshal response body"))
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write(respBodyJson)
		}))

	type createSubjectReqBody struct {
		Name   string `json:"name"`
		Term   string `json:"term"`
		UserID string `json:"userId"`
	}

	muxer.HandleFunc("POST /subjects", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			var reqBody createSubjectReqBody
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Invalid request body"))
				return
			}
			if reqBody.UserID != "" {
				if err := validator.Validate(r.Context(), event.KIND_USER, reqBody.UserID); err != nil {
					writeEventError(w, err)
					return
				}
			}

			subjectModel := model.Subject{
				ID:     uuid.NewString(),
				Name:   utils.CleanupString(reqBody.Name),
				Term:   reqBody.Term,
				UserID: reqBody.UserID,
			}
			if err := subjectModel.Upsert(r.Context(), as.BunDB); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Can't create subject"))
				slog.Warn("can't create subject", "error", err)
				return
			}

			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(subjectModel.ID))
		}))

	type createGradeReqBody struct {
		SubjectID string  `json:"subjectId"`
		UserID    string  `json:"userId"`
		Score     float64 `json:"score"`
		OutOf     float64 `json:"outOf"`
	}

	muxer.HandleFunc("POST /grades", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			var reqBody createGradeReqBody
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Invalid request body"))
				return
			}
			if err := validator.Validate(r.Context(), event.KIND_USER, reqBody.UserID); err != nil {
				writeEventError(w, err)
				return
			}
			if err := validator.Validate(r.Context(), event.KIND_SUBJECT, reqBody.SubjectID); err != nil {
				writeEventError(w, err)
				return
			}

			gradeModel := model.Grade{
				ID:        uuid.NewString(),
				SubjectID: reqBody.SubjectID,
				UserID:    reqBody.UserID,
				Score:     reqBody.Score,
				OutOf:     reqBody.OutOf,
			}
			if err := gradeModel.Upsert(r.Context(), as.BunDB); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Can't create grade"))
				slog.Warn("can't create grade", "error", err)
				return
			}

			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(gradeModel.ID))
		}))

	type createAssignmentReqBody struct {
		Title          string `json:"title"`
		SubjectID      string `json:"subjectId"`
		UserID         string `json:"userId"`
		DueDateUnixUTC int64  `json:"dueDateUnixUTC"`
	}

	muxer.HandleFunc("POST /assignments", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			var reqBody createAssignmentReqBody
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Invalid request body"))
				return
			}
			if reqBody.UserID != "" {
				if err := validator.Validate(r.Context(), event.KIND_USER, reqBody.UserID); err != nil {
					writeEventError(w, err)
					return
				}
			}
			if reqBody.SubjectID != "" {
				if err := validator.Validate(r.Context(), event.KIND_SUBJECT, reqBody.SubjectID); err != nil {
					writeEventError(w, err)
					return
				}
			}

			assignmentModel := model.Assignment{
				ID:             uuid.NewString(),
				Title:          utils.CleanupString(reqBody.Title),
				SubjectID:      reqBody.SubjectID,
				UserID:         reqBody.UserID,
				DueDateUnixUTC: reqBody.DueDateUnixUTC,
			}
			if err := assignmentModel.Upsert(r.Context(), as.BunDB); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Can't create assignment"))
				slog.Warn("can't create assignment", "error", err)
				return
			}

			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(assignmentModel.ID))
		}))
}
