package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendfront/payroll-engine/api"
	"github.com/lendfront/payroll-engine/factory"
	"github.com/lendfront/payroll-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// newTestServer pins the clock to April 10, 2024 (a Wednesday) so every
// assertion about "today" is deterministic.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	handler := api.NewHandler(store)
	handler.Now = func() time.Time {
		return time.Date(2024, time.April, 10, 9, 0, 0, 0, time.UTC)
	}

	srv := httptest.NewServer(api.NewRouter(handler))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	return resp
}

func putJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(b))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func semiMonthlyConfig() factory.ScheduleJSON {
	return factory.ScheduleJSON{
		Frequency: "Semi-Monthly",
		HowPaid:   "Two Specific Days",
		PayDay1:   "1",
		PayDay2:   "15",
	}
}

func createLead(t *testing.T, srv *httptest.Server) api.LeadDTO {
	t.Helper()
	resp := postJSON(t, srv.URL+"/api/leads", api.CreateLeadRequest{
		FirstName: "Ada",
		LastName:  "Byron",
		Employers: []api.EmployerRequest{{
			Name:     "Acme Corp",
			GrossPay: "2500.00",
			Schedule: semiMonthlyConfig(),
		}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[api.LeadDTO](t, resp)
}

// =============================================================================
// LEAD LIFECYCLE
// =============================================================================

func TestCreateAndGetLead(t *testing.T) {
	srv := newTestServer(t)
	lead := createLead(t, srv)

	resp, err := http.Get(srv.URL + "/api/leads/" + lead.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[api.LeadDTO](t, resp)
	require.Len(t, got.Employers, 1)
	assert.Equal(t, "Acme Corp", got.Employers[0].Name)
	assert.Equal(t, "2500", got.Employers[0].GrossPay)
	assert.Equal(t, "Semi-Monthly", got.Employers[0].Schedule.Frequency)
}

func TestGetLead_NotFound(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/api/leads/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSetDates_DerivesDependentDates(t *testing.T) {
	// GIVEN: pay on the 1st and 15th
	// WHEN: the user picks April 15 as next pay date
	// THEN: second pay date is derived as May 1 and first payment defaults
	// to the next pay date

	srv := newTestServer(t)
	lead := createLead(t, srv)

	last := "2024-04-01"
	resp := putJSON(t, srv.URL+"/api/leads/"+lead.ID+"/employers/0/dates", api.SetDatesRequest{
		LastPayDate: &last,
		NextPayDate: "2024-04-15",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[api.LeadDTO](t, resp)
	dates := got.Employers[0].Dates
	require.NotNil(t, dates.SecondPayDate)
	assert.Equal(t, "2024-05-01", *dates.SecondPayDate)
	require.NotNil(t, dates.FirstPaymentDate)
	assert.Equal(t, "2024-04-15", *dates.FirstPaymentDate)
}

func TestSubmitLead_ValidationGate(t *testing.T) {
	srv := newTestServer(t)
	lead := createLead(t, srv)

	// Submitting before any dates are entered fails field-by-field.
	resp := postJSON(t, srv.URL+"/api/leads/"+lead.ID+"/submit", nil)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	result := decode[api.ValidateResponse](t, resp)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors, "employers[0].nextPayDate")

	// Fill the dates, then submission succeeds.
	last := "2024-04-01"
	putJSON(t, srv.URL+"/api/leads/"+lead.ID+"/employers/0/dates", api.SetDatesRequest{
		LastPayDate: &last,
		NextPayDate: "2024-04-15",
	}).Body.Close()

	resp = postJSON(t, srv.URL+"/api/leads/"+lead.ID+"/submit", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	submitted := decode[api.LeadDTO](t, resp)
	assert.Equal(t, "submitted", submitted.Status)
}

func TestReplaceSchedule_FrequencyChangeClearsDates(t *testing.T) {
	srv := newTestServer(t)
	lead := createLead(t, srv)

	last := "2024-04-01"
	putJSON(t, srv.URL+"/api/leads/"+lead.ID+"/employers/0/dates", api.SetDatesRequest{
		LastPayDate: &last,
		NextPayDate: "2024-04-15",
	}).Body.Close()

	resp := putJSON(t, srv.URL+"/api/leads/"+lead.ID+"/employers/0/schedule", factory.ScheduleJSON{
		Frequency:  "Weekly",
		HowPaid:    "Day of Week",
		PayWeekday: "FRIDAY",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[api.LeadDTO](t, resp)
	dates := got.Employers[0].Dates
	assert.Nil(t, dates.NextPayDate, "frequency change clears dependent dates")
	assert.Nil(t, dates.SecondPayDate)
}

// =============================================================================
// STATELESS SCHEDULE QUERIES
// =============================================================================

func TestAllowedDay_SelectionLookback(t *testing.T) {
	srv := newTestServer(t)
	saturdaySchedule := factory.ScheduleJSON{
		Frequency:  "Weekly",
		HowPaid:    "Day of Week",
		PayWeekday: "SATURDAY",
	}

	// Raw predicate: the Monday is not an occurrence.
	resp := postJSON(t, srv.URL+"/api/schedule/allowed-day", api.AllowedDayRequest{
		Date:     "2024-06-03",
		Schedule: saturdaySchedule,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decode[api.AllowedDayResponse](t, resp).Allowed)

	// Selection predicate: the preceding Saturday shifts onto it.
	resp = postJSON(t, srv.URL+"/api/schedule/allowed-day", api.AllowedDayRequest{
		Date:         "2024-06-03",
		Schedule:     saturdaySchedule,
		ForSelection: true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[api.AllowedDayResponse](t, resp).Allowed)
}

func TestNextOccurrence_MonthlyDateFallback(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/schedule/next-occurrence", api.NextOccurrenceRequest{
		CurrentDate: "2024-01-05",
		Schedule: factory.ScheduleJSON{
			Frequency: "Monthly",
			HowPaid:   "Specific Date",
			PayDay1:   "31",
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[api.NextOccurrenceResponse](t, resp)
	require.NotNil(t, got.Date)
	assert.Equal(t, "2024-02-29", *got.Date)
}

func TestNextOccurrence_Unresolvable_NullDate(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/schedule/next-occurrence", api.NextOccurrenceRequest{
		CurrentDate: "2023-02-01",
		Schedule: factory.ScheduleJSON{
			Frequency: "Semi-Monthly",
			HowPaid:   "Two Specific Days",
			PayDay1:   "29",
			PayDay2:   "30",
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, decode[api.NextOccurrenceResponse](t, resp).Date)
}

func TestValidateDates_WeekendNextPayDate(t *testing.T) {
	srv := newTestServer(t)

	next := "2024-04-13" // Saturday
	last := "2024-04-01"
	first := "2024-04-13"
	resp := postJSON(t, srv.URL+"/api/schedule/validate", api.ValidateRequest{
		Today:    "2024-04-10",
		Schedule: semiMonthlyConfig(),
		Dates: api.PayDateSetDTO{
			LastPayDate:      &last,
			NextPayDate:      &next,
			FirstPaymentDate: &first,
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	result := decode[api.ValidateResponse](t, resp)
	assert.False(t, result.Valid)
	assert.Equal(t, "Next Pay Date cannot fall on a weekend", result.Errors["nextPayDate"])
}

func TestValidateDates_CleanSet(t *testing.T) {
	srv := newTestServer(t)

	last := "2024-04-01"
	next := "2024-04-15"
	second := "2024-05-01"
	resp := postJSON(t, srv.URL+"/api/schedule/validate", api.ValidateRequest{
		Today:    "2024-04-10",
		Schedule: semiMonthlyConfig(),
		Dates: api.PayDateSetDTO{
			LastPayDate:      &last,
			NextPayDate:      &next,
			SecondPayDate:    &second,
			FirstPaymentDate: &next,
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	result := decode[api.ValidateResponse](t, resp)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestFirstValid_AppliesWeekendShift(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/schedule/first-valid", api.FirstValidRequest{
		Today: "2024-04-03",
		Schedule: factory.ScheduleJSON{
			Frequency:  "Weekly",
			HowPaid:    "Day of Week",
			PayWeekday: "SATURDAY",
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[api.NextOccurrenceResponse](t, resp)
	require.NotNil(t, got.Date)
	assert.Equal(t, "2024-04-08", *got.Date, "Saturday occurrence shifts to Monday")
}
