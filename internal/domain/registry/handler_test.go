package registry

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/devstack-vibes/clinic-api/internal/platform/store"
	"github.com/devstack-vibes/clinic-api/internal/platform/telemetry"
)

func setupServer(t *testing.T) (*echo.Echo, store.Store) {
	t.Helper()
	st := store.NewMemStore()
	appts := &cascadeRecorder{}
	bills := &cascadeRecorder{}
	svc := NewService(NewPatientStoreRepo(st), NewDoctorStoreRepo(st),
		appts, bills, telemetry.NewProvider("test"), zerolog.Nop())

	e := echo.New()
	NewHandler(svc).RegisterRoutes(e.Group("/api/v1"))
	return e, st
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestPatientCRUDOverHTTP(t *testing.T) {
	e, _ := setupServer(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/patients",
		`{"token":"T-001","name":"Jane Doe","age":34,"gender":"F"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created Patient
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decoding create response: %v", err)
	}
	if created.ID == "" {
		t.Fatal("created patient has empty id")
	}

	rec = doJSON(e, http.MethodGet, "/api/v1/patients/"+created.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	rec = doJSON(e, http.MethodPut, "/api/v1/patients/"+created.ID,
		`{"token":"T-001","name":"Jane Smith"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}
	var updated Patient
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decoding update response: %v", err)
	}
	if updated.Name != "Jane Smith" {
		t.Errorf("updated name = %q", updated.Name)
	}

	rec = doJSON(e, http.MethodDelete, "/api/v1/patients/"+created.ID, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = doJSON(e, http.MethodGet, "/api/v1/patients/"+created.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}

	rec = doJSON(e, http.MethodDelete, "/api/v1/patients/"+created.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestCreatePatientRejectsMissingFields(t *testing.T) {
	e, _ := setupServer(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/patients", `{"name":"No Token"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestListPatientsPaginated(t *testing.T) {
	e, st := setupServer(t)

	ps := make([]*Patient, 0, 5)
	for i := 0; i < 5; i++ {
		ps = append(ps, &Patient{ID: string(rune('a' + i)), Token: "T", Name: "P"})
	}
	if err := st.Save(store.Patients, ps); err != nil {
		t.Fatalf("seeding store: %v", err)
	}

	rec := doJSON(e, http.MethodGet, "/api/v1/patients?limit=2&offset=4", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Data    []Patient `json:"data"`
		Total   int       `json:"total"`
		HasMore bool      `json:"has_more"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Total != 5 || len(resp.Data) != 1 || resp.HasMore {
		t.Errorf("page = %d items, total %d, has_more %v; want 1, 5, false",
			len(resp.Data), resp.Total, resp.HasMore)
	}
}

func TestDoctorRoundTripPreservesFields(t *testing.T) {
	e, _ := setupServer(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/doctors",
		`{"name":"Dr. Khan","spec":"Cardiology","contact":"0300-1234567","avail":"Mon-Fri"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var d Doctor
	if err := json.Unmarshal(rec.Body.Bytes(), &d); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if d.Specialization != "Cardiology" || d.Availability != "Mon-Fri" {
		t.Errorf("doctor = %+v, lost fields on round trip", d)
	}

	rec = doJSON(e, http.MethodGet, "/api/v1/doctors/options", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("options status = %d", rec.Code)
	}
	var opts []Option
	if err := json.Unmarshal(rec.Body.Bytes(), &opts); err != nil {
		t.Fatalf("decoding options: %v", err)
	}
	if len(opts) != 1 || opts[0].Label != "Dr. Khan — Cardiology" {
		t.Errorf("options = %+v", opts)
	}
}

func TestSelectorsCombineBothLists(t *testing.T) {
	e, st := setupServer(t)

	if err := st.Save(store.Patients, []*Patient{{ID: "p1", Token: "T-007", Name: "Jane Doe"}}); err != nil {
		t.Fatalf("seeding patients: %v", err)
	}
	if err := st.Save(store.Doctors, []*Doctor{{ID: "d1", Name: "Dr. Khan", Specialization: "Cardiology"}}); err != nil {
		t.Fatalf("seeding doctors: %v", err)
	}

	rec := doJSON(e, http.MethodGet, "/api/v1/selectors", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string][]Option
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding selectors: %v", err)
	}
	if len(resp["patients"]) != 1 || resp["patients"][0].Label != "Jane Doe (T-007)" {
		t.Errorf("patients = %+v", resp["patients"])
	}
	if len(resp["doctors"]) != 1 || resp["doctors"][0].Label != "Dr. Khan — Cardiology" {
		t.Errorf("doctors = %+v", resp["doctors"])
	}
}

var _ AppointmentCascade = (*cascadeRecorder)(nil)
var _ BillCascade = (*cascadeRecorder)(nil)
