package route

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shivam044/COMP-313-002-Group4-W25-API/src-server/event"
	"github.com/shivam044/COMP-313-002-Group4-W25-API/src-server/utils"
)

func Meetings(muxer *http.ServeMux, as *utils.AppState) {
	coordinator := event.NewCoordinator(as.BunDB)

	type scheduleMeetingReqBody struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		DateUnixUTC int64  `json:"dateUnixUTC"`
		Time        string `json:"time"`
		Duration    int    `json:"duration"`
		AdvisorID   string `json:"advisorId"`
		StudentID   string `json:"studentId"`
	}

	type scheduleMeetingRespBody struct {
		StudentEvent eventRespBody `json:"studentEvent"`
		AdvisorEvent eventRespBody `json:"advisorEvent"`
	}

	// schedule an advisor/student meeting, one event record per side
	muxer.HandleFunc("POST /events/meetings", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			var reqBody scheduleMeetingReqBody
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Invalid request body"))
				return
			}

			startTimer := time.Now()
			meeting, err := coordinator.Schedule(r.Context(), event.ScheduleInput{
				Name:        utils.CleanupString(reqBody.Name),
				Description: reqBody.Description,
				DateUnixUTC: reqBody.DateUnixUTC,
				StartTime:   reqBody.Time,
				DurationMin: reqBody.Duration,
				AdvisorID:   reqBody.AdvisorID,
				StudentID:   reqBody.StudentID,
			})
			if err != nil {
				writeEventError(w, err)
				return
			}
			select {
			case as.MetricChans.DatabaseWrite <- float64(time.Since(startTimer).Microseconds()):
			default:
			}

			respBodyJson, err := json.Marshal(scheduleMeetingRespBody{
				StudentEvent: toEventRespBody(*meeting.StudentEvent),
				AdvisorEvent: toEventRespBody(*meeting.AdvisorEvent),
			})
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't marshal response body"))
				return
			}
			w.WriteHeader(http.StatusCreated)
			w.Write(respBodyJson)
		}))

	type cancelMeetingRespBody struct {
		Message        string `json:"message"`
		CanceledEvents int    `json:"canceledEvents"`
	}

	// cancel from either side; removes this record plus its counterpart
	// when the counterpart still exists
	muxer.HandleFunc("DELETE /events/meetings/{id}", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			removed, err := coordinator.Cancel(r.Context(), r.PathValue("id"))
			if err != nil {
				writeEventError(w, err)
				return
			}

			respBodyJson, err := json.Marshal(cancelMeetingRespBody{
				Message:        "Meeting canceled",
				CanceledEvents: removed,
			})
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't marshal response body"))
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write(respBodyJson)
		}))
}
