package route

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shivam044/COMP-313-002-Group4-W25-API/src-server/event"
	"github.com/shivam044/COMP-313-002-Group4-W25-API/src-server/model"
	"github.com/shivam044/COMP-313-002-Group4-W25-API/src-server/utils"
)

type eventRespBody struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	DateUnixUTC int64  `json:"dateUnixUTC"`
	Owner       string `json:"owner"`
	RelatedID   string `json:"relatedId,omitempty"`
	RelatedKind string `json:"relatedKind,omitempty"`
	Time        string `json:"time,omitempty"`
	Duration    int    `json:"duration,omitempty"`
	CreatedAt   int64  `json:"createdAt"`
	UpdatedAt   int64  `json:"updatedAt"`
}

func toEventRespBody(eventModel model.Event) eventRespBody {
	return eventRespBody{
		ID:          eventModel.ID,
		Name:        eventModel.Name,
		Type:        string(eventModel.Type),
		Description: eventModel.Description,
		DateUnixUTC: eventModel.DateUnixUTC,
		Owner:       eventModel.OwnerID,
		RelatedID:   eventModel.RelatedID,
		RelatedKind: eventModel.RelatedKind,
		Time:        eventModel.StartTime,
		Duration:    eventModel.DurationMin,
		CreatedAt:   eventModel.CreatedAt,
		UpdatedAt:   eventModel.UpdatedAt,
	}
}

// Known outcomes become 4xx with the offending entity/field named;
// everything else is a generic 500.
func writeEventError(w http.ResponseWriter, err error) {
	var notFoundErr *event.NotFoundError
	var validationErr *event.ValidationError
	switch {
	case errors.As(err, &notFoundErr):
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(notFoundErr.Error()))
	case errors.Is(err, event.ErrInvalidRelatedKind):
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Invalid related kind"))
	case errors.As(err, &validationErr):
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(validationErr.Error()))
	default:
		slog.Error("event route error", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
	}
}

func Events(muxer *http.ServeMux, as *utils.AppState) {
	manager := event.NewManager(as.BunDB)

	type createEventReqBody struct {
		Name        string `json:"name"`
		Type        string `json:"type"`
		Description string `json:"description"`
		DateUnixUTC int64  `json:"dateUnixUTC"`
		Owner       string `json:"owner"`
		RelatedID   string `json:"relatedId"`
		RelatedKind string `json:"relatedKind"`
		Time        string `json:"time"`
		Duration    int    `json:"duration"`
	}

	// create a single event
	muxer.HandleFunc("POST /events", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			var reqBody createEventReqBody
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Invalid request body"))
				return
			}

			startTimer := time.Now()
			createdEvent, err := manager.Create(r.Context(), event.CreateInput{
				Name:        utils.CleanupString(reqBody.Name),
				Type:        model.EventType(strings.ToLower(reqBody.Type)),
				Description: reqBody.Description,
				DateUnixUTC: reqBody.DateUnixUTC,
				OwnerID:     reqBody.Owner,
				RelatedID:   reqBody.RelatedID,
				RelatedKind: event.Kind(strings.ToLower(reqBody.RelatedKind)),
				StartTime:   reqBody.Time,
				DurationMin: reqBody.Duration,
			})
			if err != nil {
				writeEventError(w, err)
				return
			}
			select {
			case as.MetricChans.DatabaseWrite <- float64(time.Since(startTimer).Microseconds()):
			default:
			}

			respBodyJson, err := json.Marshal(toEventRespBody(*createdEvent))
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't marshal response body"))
				return
			}
			w.WriteHeader(http.StatusCreated)
			w.Write(respBodyJson)
		}))

	// list every event
	muxer.HandleFunc("GET /events", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			startTimer := time.Now()
			eventModels, err := manager.ListAll(r.Context())
			if err != nil {
				writeEventError(w, err)
				return
			}
			select {
			case as.MetricChans.DatabaseRead <- float64(time.Since(startTimer).Microseconds()):
			default:
			}

			respBody := make([]eventRespBody, 0, len(eventModels))
			for _, eventModel := range eventModels {
				respBody = append(respBody, toEventRespBody(eventModel))
			}
			respBodyJson, err := json.Marshal(respBody)
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't marshal response body"))
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write(respBodyJson)
		}))

	// get one event
	muxer.HandleFunc("GET /events/{id}", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			eventModel, err := manager.GetByID(r.Context(), r.PathValue("id"))
			if err != nil {
				writeEventError(w, err)
				return
			}

			respBodyJson, err := json.Marshal(toEventRespBody(*eventModel))
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't marshal response body"))
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write(respBodyJson)
		}))

	// a user's events, upcoming by default, ?past=true for history,
	// ?type= to narrow down
	muxer.HandleFunc("GET /events/user/{userId}", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			eventModels, err := manager.ListForUser(
				r.Context(),
				r.PathValue("userId"),
				event.ListFilter{
					Kind: model.EventType(strings.ToLower(r.URL.Query().Get("type"))),
					Past: r.URL.Query().Get("past") == "true",
				})
			if err != nil {
				writeEventError(w, err)
				return
			}

			respBody := make([]eventRespBody, 0, len(eventModels))
			for _, eventModel := range eventModels {
				respBody = append(respBody, toEventRespBody(eventModel))
			}
			respBodyJson, err := json.Marshal(respBody)
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't marshal response body"))
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write(respBodyJson)
		}))

	type updateEventReqBody struct {
		Name        *string `json:"name"`
		Type        *string `json:"type"`
		Description *string `json:"description"`
		DateUnixUTC *int64  `json:"dateUnixUTC"`
		RelatedID   *string `json:"relatedId"`
		RelatedKind *string `json:"relatedKind"`
		Time        *string `json:"time"`
		Duration    *int    `json:"duration"`
	}

	// partial update, only the supplied fields are touched
	muxer.HandleFunc("PUT /events/{id}", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			var reqBody updateEventReqBody
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Invalid request body"))
				return
			}

			input := event.UpdateInput{
				Description: reqBody.Description,
				DateUnixUTC: reqBody.DateUnixUTC,
				RelatedID:   reqBody.RelatedID,
				StartTime:   reqBody.Time,
				DurationMin: reqBody.Duration,
			}
			if reqBody.Name != nil {
				name := utils.CleanupString(*reqBody.Name)
				input.Name = &name
			}
			if reqBody.Type != nil {
				eventType := model.EventType(strings.ToLower(*reqBody.Type))
				input.Type = &eventType
			}
			if reqBody.RelatedKind != nil {
				relatedKind := event.Kind(strings.ToLower(*reqBody.RelatedKind))
				input.RelatedKind = &relatedKind
			}

			updatedEvent, err := manager.Update(r.Context(), r.PathValue("id"), input)
			if err != nil {
				writeEventError(w, err)
				return
			}

			respBodyJson, err := json.Marshal(toEventRespBody(*updatedEvent))
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't marshal response body"))
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write(respBodyJson)
		}))

	// delete one event
	muxer.HandleFunc("DELETE /events/{id}", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := manager.Delete(r.Context(), r.PathValue("id")); err != nil {
				writeEventError(w, err)
				return
			}

			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"message":"Event deleted"}`))
		}))
}
