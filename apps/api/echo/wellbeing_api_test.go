package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osisproject0-hub/smaktal/core/wellbeing"
	"github.com/osisproject0-hub/smaktal/tests"
)

func Test_wellbeingApi_checkIn(t *testing.T) {
	srv, env := setup(t)
	usr := testutil.CreateUser(t, env, "uid-budi", "Budi Santoso", "")
	token := getToken(t, srv, usr)

	runHTTPTests(t, srv, []httpTest{
		{
			name:     "unknown mood",
			method:   http.MethodPost,
			path:     "/v1/well-being/check-ins",
			body:     []byte(`{"mood": "Lapar"}`),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"mood": "mood must be one of: Senang, Baik, Biasa, Sedih, Marah"}`),
		},
		{name: "no session", method: http.MethodPost, path: "/v1/well-being/check-ins", body: []byte(`{"mood": "Baik"}`), wantCode: http.StatusUnauthorized},
	})

	req, rec := newAuthRequest(http.MethodPost, "/v1/well-being/check-ins", token, []byte(`{"mood": "Senang", "note": "ujian lancar"}`))
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var res CheckInResponse
	unmarshalBody(t, rec, &res)
	assert.Equal(t, "Terima kasih telah berbagi perasaan Anda hari ini. Mood Anda: Senang.", res.Message)
	assert.Equal(t, wellbeing.MoodHappy, res.CheckIn.Mood)
	assert.NotEmpty(t, res.CheckIn.ID)

	req, rec = newAuthRequest(http.MethodGet, "/v1/well-being/check-ins", token)
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var checkIns []wellbeing.CheckIn
	unmarshalBody(t, rec, &checkIns)
	if assert.Len(t, checkIns, 1) {
		assert.Equal(t, res.CheckIn.ID, checkIns[0].ID)
		assert.Equal(t, "ujian lancar", checkIns[0].Note)
	}
}

func Test_wellbeingApi_requestAppointment(t *testing.T) {
	srv, env := setup(t)
	usr := testutil.CreateUser(t, env, "uid-budi", "Budi Santoso", "")
	token := getToken(t, srv, usr)

	runHTTPTests(t, srv, []httpTest{
		{
			name:     "empty reason",
			method:   http.MethodPost,
			path:     "/v1/well-being/appointments",
			body:     []byte(`{"reason": "   "}`),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"reason": "Mohon isi alasan pertemuan Anda."}`),
		},
		{
			name:     "ok",
			method:   http.MethodPost,
			path:     "/v1/well-being/appointments",
			body:     []byte(`{"reason": "Saya merasa cemas menjelang ujian."}`),
			token:    token,
			wantCode: http.StatusCreated,
			wantData: marchallObj(t, SuccessResponse{Success: wellbeing.AppointmentConfirmation}),
		},
	})

	sent := env.Mail.SentMessages()
	if assert.Len(t, sent, 1) {
		assert.Equal(t, env.Conf.CounselorEmail, sent[0].To[0])
		assert.Contains(t, sent[0].Subject, usr.DisplayName)
		assert.Contains(t, sent[0].TextContent, "Saya merasa cemas menjelang ujian.")
	}
}
