package route_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shivam044/COMP-313-002-Group4-W25-API/src-server/model"
	"github.com/shivam044/COMP-313-002-Group4-W25-API/src-server/route"
	"github.com/shivam044/COMP-313-002-Group4-W25-API/src-server/utils"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestServer(t *testing.T) (*http.ServeMux, *utils.AppState) {
	t.Helper()
	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	bundb := bun.NewDB(db, sqlitedialect.New())
	if err := model.CreateSchema(bundb); err != nil {
		t.Fatal(err)
	}

	as := &utils.AppState{
		Config:      utils.NewConfig(),
		RawDB:       db,
		BunDB:       bundb,
		MetricChans: utils.NewMetric(),
	}

	muxer := http.NewServeMux()
	route.Auth(muxer, as)
	route.Events(muxer, as)
	route.Meetings(muxer, as)
	route.Entities(muxer, as)
	return muxer, as
}

func seedSession(t *testing.T, as *utils.AppState) (*model.User, *http.Cookie) {
	t.Helper()
	userModel := model.User{
		ID:       uuid.NewString(),
		UserName: "caller",
	}
	if err := userModel.Upsert(context.Background(), as.BunDB); err != nil {
		t.Fatal(err)
	}
	sessionModel := model.Session{
		Secret:           uuid.NewString(),
		UserID:           userModel.ID,
		CreatedAtUnixUTC: time.Now().UTC().Unix(),
	}
	if _, err := as.BunDB.NewInsert().
		Model(&sessionModel).
		Exec(context.Background()); err != nil {
		t.Fatal(err)
	}
	return &userModel, &http.Cookie{
		Name:  route.SessionSecretCookieName,
		Value: sessionModel.Secret,
	}
}

func doJSON(muxer *http.ServeMux, cookie *http.Cookie, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if cookie != nil {
		req.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	muxer.ServeHTTP(recorder, req)
	return recorder
}

// reads comp313_http_requests_total for one method/path pair off the default
// gatherer; the counter is process-global, so callers compare deltas
func requestCount(t *testing.T, method, path string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, family := range families {
		if family.GetName() != "comp313_http_requests_total" {
			continue
		}
		for _, m := range family.GetMetric() {
			matched := 0
			for _, label := range m.GetLabel() {
				if (label.GetName() == "method" && label.GetValue() == method) ||
					(label.GetName() == "path" && label.GetValue() == path) {
					matched++
				}
			}
			if matched == 2 {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestEventsRequireSession(t *testing.T) {
	muxer, _ := newTestServer(t)

	recorder := doJSON(muxer, nil, http.MethodGet, "/events", "")
	if recorder.Code != http.StatusUnauthorized {
		t.Error("missing cookie should be rejected", recorder.Code)
	}
}

func TestEventCRUDStatusCodes(t *testing.T) {
	muxer, as := newTestServer(t)
	userModel, cookie := seedSession(t, as)

	// create
	recorder := doJSON(muxer, cookie, http.MethodPost, "/events", fmt.Sprintf(
		`{"name":"final exam","type":"exam","dateUnixUTC":%d,"owner":%q}`,
		time.Now().UTC().Unix()+3600, userModel.ID))
	if recorder.Code != http.StatusCreated {
		t.Fatal("create should return 201", recorder.Code, recorder.Body.String())
	}
	var created struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.Name != "Final Exam" {
		t.Error("name should be cleaned up", created.Name)
	}

	// fetch
	if recorder := doJSON(muxer, cookie, http.MethodGet, "/events/"+created.ID, ""); recorder.Code != http.StatusOK {
		t.Error("fetch should return 200", recorder.Code)
	}
	if recorder := doJSON(muxer, cookie, http.MethodGet, "/events/"+uuid.NewString(), ""); recorder.Code != http.StatusNotFound {
		t.Error("unknown id should return 404", recorder.Code)
	}

	// create with unknown related subject
	recorder = doJSON(muxer, cookie, http.MethodPost, "/events", fmt.Sprintf(
		`{"name":"quiz","type":"exam","dateUnixUTC":%d,"owner":%q,"relatedId":%q,"relatedKind":"subject"}`,
		time.Now().UTC().Unix()+3600, userModel.ID, uuid.NewString()))
	if recorder.Code != http.StatusNotFound {
		t.Error("missing subject should return 404", recorder.Code, recorder.Body.String())
	}

	// create with bogus related kind
	recorder = doJSON(muxer, cookie, http.MethodPost, "/events", fmt.Sprintf(
		`{"name":"quiz","type":"exam","dateUnixUTC":%d,"owner":%q,"relatedId":%q,"relatedKind":"course"}`,
		time.Now().UTC().Unix()+3600, userModel.ID, uuid.NewString()))
	if recorder.Code != http.StatusBadRequest {
		t.Error("bogus related kind should return 400", recorder.Code)
	}

	// partial update
	recorder = doJSON(muxer, cookie, http.MethodPut, "/events/"+created.ID, `{"description":"room 204"}`)
	if recorder.Code != http.StatusOK {
		t.Error("update should return 200", recorder.Code, recorder.Body.String())
	}

	// list for user
	recorder = doJSON(muxer, cookie, http.MethodGet, "/events/user/"+userModel.ID, "")
	if recorder.Code != http.StatusOK {
		t.Error("list for user should return 200", recorder.Code)
	}
	if recorder := doJSON(muxer, cookie, http.MethodGet, "/events/user/"+uuid.NewString(), ""); recorder.Code != http.StatusNotFound {
		t.Error("unknown user should return 404", recorder.Code)
	}

	// delete, then delete again
	if recorder := doJSON(muxer, cookie, http.MethodDelete, "/events/"+created.ID, ""); recorder.Code != http.StatusOK {
		t.Error("delete should return 200", recorder.Code)
	}
	if recorder := doJSON(muxer, cookie, http.MethodDelete, "/events/"+created.ID, ""); recorder.Code != http.StatusNotFound {
		t.Error("second delete should return 404", recorder.Code)
	}
}

func TestMeetingRoutes(t *testing.T) {
	muxer, as := newTestServer(t)
	advisorModel, cookie := seedSession(t, as)

	studentModel := model.User{ID: uuid.NewString(), UserName: "student"}
	if err := studentModel.Upsert(context.Background(), as.BunDB); err != nil {
		t.Fatal(err)
	}

	// case: unknown advisor
	recorder := doJSON(muxer, cookie, http.MethodPost, "/events/meetings", fmt.Sprintf(
		`{"name":"advising","dateUnixUTC":%d,"time":"14:30","advisorId":%q,"studentId":%q}`,
		time.Now().UTC().Unix()+3600, uuid.NewString(), studentModel.ID))
	if recorder.Code != http.StatusNotFound {
		t.Error("unknown advisor should return 404", recorder.Code, recorder.Body.String())
	}

	// case: schedule then cancel
	recorder = doJSON(muxer, cookie, http.MethodPost, "/events/meetings", fmt.Sprintf(
		`{"name":"advising","dateUnixUTC":%d,"time":"14:30","duration":45,"advisorId":%q,"studentId":%q}`,
		time.Now().UTC().Unix()+3600, advisorModel.ID, studentModel.ID))
	if recorder.Code != http.StatusCreated {
		t.Fatal("schedule should return 201", recorder.Code, recorder.Body.String())
	}
	var scheduled struct {
		StudentEvent struct {
			ID        string `json:"id"`
			Owner     string `json:"owner"`
			RelatedID string `json:"relatedId"`
		} `json:"studentEvent"`
		AdvisorEvent struct {
			ID        string `json:"id"`
			Owner     string `json:"owner"`
			RelatedID string `json:"relatedId"`
		} `json:"advisorEvent"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &scheduled); err != nil {
		t.Fatal(err)
	}
	if scheduled.StudentEvent.Owner != studentModel.ID ||
		scheduled.AdvisorEvent.Owner != advisorModel.ID ||
		scheduled.StudentEvent.RelatedID != advisorModel.ID ||
		scheduled.AdvisorEvent.RelatedID != studentModel.ID {
		t.Error("pair should have swapped owner/related ids", scheduled)
	}

	recorder = doJSON(muxer, cookie, http.MethodDelete, "/events/meetings/"+scheduled.StudentEvent.ID, "")
	if recorder.Code != http.StatusOK {
		t.Fatal("cancel should return 200", recorder.Code, recorder.Body.String())
	}
	var canceled struct {
		CanceledEvents int `json:"canceledEvents"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &canceled); err != nil {
		t.Fatal(err)
	}
	if canceled.CanceledEvents != 2 {
		t.Error("canceling an intact pair should report 2", canceled.CanceledEvents)
	}

	// case: cancel again
	recorder = doJSON(muxer, cookie, http.MethodDelete, "/events/meetings/"+scheduled.StudentEvent.ID, "")
	if recorder.Code != http.StatusNotFound {
		t.Error("canceling twice should return 404", recorder.Code)
	}
}

func TestAuthSessionRoutes(t *testing.T) {
	muxer, as := newTestServer(t)

	userModel := model.User{ID: uuid.NewString(), UserName: "caller"}
	if err := userModel.Upsert(context.Background(), as.BunDB); err != nil {
		t.Fatal(err)
	}

	// case: unknown user can't get a session
	recorder := doJSON(muxer, nil, http.MethodPost, "/auth/session", fmt.Sprintf(`{"userId":%q}`, uuid.NewString()))
	if recorder.Code != http.StatusNotFound {
		t.Error("unknown user should return 404", recorder.Code)
	}

	// case: known user gets a cookie
	recorder = doJSON(muxer, nil, http.MethodPost, "/auth/session", fmt.Sprintf(`{"userId":%q}`, userModel.ID))
	if recorder.Code != http.StatusCreated {
		t.Fatal("session create should return 201", recorder.Code, recorder.Body.String())
	}
	cookies := recorder.Result().Cookies()
	if len(cookies) == 0 || cookies[0].Name != route.SessionSecretCookieName {
		t.Fatal("session cookie should be set", cookies)
	}

	// the cookie works against a protected route
	if recorder := doJSON(muxer, cookies[0], http.MethodGet, "/events", ""); recorder.Code != http.StatusOK {
		t.Error("fresh session should be accepted", recorder.Code)
	}
}

func TestSessionCreateIsCounted(t *testing.T) {
	muxer, as := newTestServer(t)

	userModel := model.User{ID: uuid.NewString(), UserName: "caller"}
	if err := userModel.Upsert(context.Background(), as.BunDB); err != nil {
		t.Fatal(err)
	}

	before := requestCount(t, http.MethodPost, "/auth/session")
	recorder := doJSON(muxer, nil, http.MethodPost, "/auth/session", fmt.Sprintf(`{"userId":%q}`, userModel.ID))
	if recorder.Code != http.StatusCreated {
		t.Fatal("session create should return 201", recorder.Code, recorder.Body.String())
	}
	if after := requestCount(t, http.MethodPost, "/auth/session"); after != before+1 {
		t.Error("session creation should bump the request counter", before, after)
	}
}
