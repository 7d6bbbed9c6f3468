package connection

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelbooking/dto"
	"hotelbooking/model"
	"hotelbooking/services"
)

type fakeCaptcha struct{}

func (fakeCaptcha) Assess(ctx context.Context, token, action, ip, ua string) (*dto.AssessmentResult, error) {
	if token != "good" {
		return nil, nil
	}
	return &dto.AssessmentResult{Score: 0.9, Action: action}, nil
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	store  *services.MemStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	t.Setenv("JWT_SECRET_KEY", "access-secret")
	t.Setenv("JWT_REFRESH_SECRET_KEY", "refresh-secret")
	gin.SetMode(gin.TestMode)

	store := services.NewMemStore()
	router := NewRouter(Deps{
		Store:           store,
		Uploader:        services.NewMemUploader(),
		Captcha:         fakeCaptcha{},
		BookingLocation: time.UTC,
	})
	return &testServer{t: t, router: router, store: store}
}

func (s *testServer) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) json(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return s.do(req, token)
}

func (s *testServer) multipart(method, path, token string, fields map[string]string, files map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(s.t, mw.WriteField(k, v))
	}
	for field, name := range files {
		fw, err := mw.CreateFormFile(field, name)
		require.NoError(s.t, err)
		_, err = fw.Write([]byte("image-bytes"))
		require.NoError(s.t, err)
	}
	require.NoError(s.t, mw.Close())
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return s.do(req, token)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (s *testServer) signup(email string) {
	w := s.json(http.MethodPost, "/auth/signup", "", dto.SignupRequest{
		Email:           email,
		Password:        "secret123",
		ConfirmPassword: "secret123",
		Username:        "user " + email,
		Phone:           "0900",
		Location:        "Hue",
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
}

type signinBody struct {
	AccessToken  string         `json:"accessToken"`
	RefreshToken string         `json:"refreshToken"`
	User         model.User     `json:"user"`
	Navigation   dto.Navigation `json:"navigation"`
}

func (s *testServer) signin(email string) signinBody {
	w := s.json(http.MethodPost, "/auth/signin", "", dto.SigninRequest{Email: email, Password: "secret123"})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	return decode[signinBody](s.t, w)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(httptest.NewRequest(http.MethodGet, "/", nil), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Api is running!")
}

func TestAuthMessages(t *testing.T) {
	s := newTestServer(t)

	w := s.json(http.MethodPost, "/auth/signup", "", dto.SignupRequest{Email: "a@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please fill in all fields", decode[map[string]string](t, w)["error"])

	w = s.json(http.MethodPost, "/auth/signup", "", dto.SignupRequest{
		Email: "a@example.com", Password: "one", ConfirmPassword: "two", Username: "a", Phone: "1", Location: "x",
	})
	assert.Equal(t, "Passwords do not match!", decode[map[string]string](t, w)["error"])

	s.signup("a@example.com")
	w = s.json(http.MethodPost, "/auth/signup", "", dto.SignupRequest{
		Email: "a@example.com", Password: "p", ConfirmPassword: "p", Username: "a", Phone: "1", Location: "x",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "That email address is already in use!", decode[map[string]string](t, w)["error"])

	w = s.json(http.MethodPost, "/auth/signin", "", dto.SigninRequest{Email: "a@example.com", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Wrong password.", decode[map[string]string](t, w)["error"])

	w = s.json(http.MethodPost, "/auth/signin", "", dto.SigninRequest{Email: "b@example.com", Password: "nope"})
	assert.Equal(t, "No user corresponding to the given email.", decode[map[string]string](t, w)["error"])

	body := s.signin("a@example.com")
	assert.Equal(t, "Main", body.Navigation.Route)
	assert.False(t, body.Navigation.Menu.Service)
	assert.Equal(t, 1, body.User.Level)

	w = s.json(http.MethodPost, "/auth/refresh", body.RefreshToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.json(http.MethodPost, "/auth/signout", body.AccessToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCaptcha(t *testing.T) {
	s := newTestServer(t)

	w := s.json(http.MethodPost, "/auth/captcha", "", dto.CaptchaRequest{Token: "good", Action: "login"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode[map[string]any](t, w)["success"])

	w = s.json(http.MethodPost, "/auth/captcha", "", dto.CaptchaRequest{Token: "bad", Action: "login"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingFlowOverHTTP(t *testing.T) {
	s := newTestServer(t)
	s.signup("host@example.com")
	s.signup("guest@example.com")
	host := s.signin("host@example.com")
	guest := s.signin("guest@example.com")

	hotelFields := map[string]string{
		"hotelName":      "River Side",
		"hotelLocation":  "Hue",
		"hotelNote":      "quiet",
		"price":          "100",
		"numberOfPeople": "2",
	}
	w := s.multipart(http.MethodPost, "/hotels", host.AccessToken, hotelFields, map[string]string{"images": "front.jpg"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[struct {
		Hotel model.Hotel `json:"hotel"`
	}](t, w).Hotel
	assert.Equal(t, "100 VND", created.Price)

	bad := map[string]string{}
	for k, v := range hotelFields {
		bad[k] = v
	}
	bad["numberOfPeople"] = "7"
	w = s.multipart(http.MethodPost, "/hotels", host.AccessToken, bad, map[string]string{"images": "x.jpg"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	bad["numberOfPeople"] = "2"
	bad["price"] = "free"
	w = s.multipart(http.MethodPost, "/hotels", host.AccessToken, bad, map[string]string{"images": "x.jpg"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	bad["price"] = "18446744073709551716 VND"
	w = s.multipart(http.MethodPost, "/hotels", host.AccessToken, bad, map[string]string{"images": "x.jpg"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "an amount past int64 is not a price")

	type hotelList struct {
		Hotels []model.Hotel         `json:"hotels"`
		Groups []services.HotelGroup `json:"groups"`
	}
	w = s.do(httptest.NewRequest(http.MethodGet, "/hotels?minPrice=50&maxPrice=150&location=HUE", nil), "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[hotelList](t, w)
	require.Len(t, list.Hotels, 1)
	require.Len(t, list.Groups, 1)
	assert.Equal(t, "Hue", list.Groups[0].Location)

	w = s.do(httptest.NewRequest(http.MethodGet, "/hotels?minPrice=200", nil), "")
	assert.Empty(t, decode[hotelList](t, w).Hotels)

	w = s.do(httptest.NewRequest(http.MethodGet, "/hotels/search?q=river", nil), "")
	assert.Len(t, decode[hotelList](t, w).Hotels, 1)

	w = s.json(http.MethodPost, "/favourites", guest.AccessToken, dto.FavouriteRequest{HotelID: created.HotelID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	fav := decode[struct {
		Reservation model.Reservation `json:"reservation"`
	}](t, w).Reservation

	w = s.json(http.MethodPost, "/favourites/total", guest.AccessToken, dto.SelectionRequest{IDs: []string{fav.ReservationID}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(100), decode[dto.TotalResponse](t, w).Total)

	w = s.json(http.MethodPost, "/favourites/book", guest.AccessToken, dto.SelectionRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code, "an empty selection is rejected")

	w = s.json(http.MethodPost, "/favourites/book", guest.AccessToken, dto.SelectionRequest{IDs: []string{fav.ReservationID}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.json(http.MethodDelete, "/favourites/"+fav.ReservationID, guest.AccessToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code, "a booking is not deleted through the favourites route")

	w = s.json(http.MethodPost, "/bookings/confirm", guest.AccessToken, map[string]any{
		"checkInDate":    "2025-07-10T00:00:00Z",
		"numberOfGuests": 2,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.json(http.MethodGet, "/favourites", guest.AccessToken, nil)
	assert.Empty(t, decode[struct {
		Items []model.Reservation `json:"items"`
	}](t, w).Items)

	w = s.json(http.MethodGet, "/booked/host", host.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	groups := decode[struct {
		Groups []services.BookingGroup `json:"groups"`
	}](t, w).Groups
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Reservations, 1)
	assert.Equal(t, "guest@example.com", groups[0].Reservations[0].Email)
	assert.Equal(t, 2, groups[0].Reservations[0].NumberOfGuests)

	w = s.json(http.MethodDelete, "/hotels/"+created.HotelID, guest.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.json(http.MethodPost, "/hotels/"+created.HotelID+"/comments", guest.AccessToken, dto.CommentRequest{Content: "Lovely"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = s.json(http.MethodGet, "/hotels/"+created.HotelID+"/comments", "", nil)
	assert.Contains(t, w.Body.String(), "Lovely")
}

func TestAdminAndVerificationOverHTTP(t *testing.T) {
	s := newTestServer(t)
	s.signup("admin@example.com")
	s.signup("guest@example.com")

	admin := s.signin("admin@example.com")
	w := s.json(http.MethodGet, "/admin/users", admin.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code, "not an admin yet")

	require.NoError(t, s.store.Update(context.Background(), model.CollectionUsers, admin.User.UserID,
		map[string]interface{}{"role": model.RoleAdmin}))
	admin = s.signin("admin@example.com")
	assert.Equal(t, "Admin", admin.Navigation.Route)

	w = s.json(http.MethodGet, "/admin/users", admin.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "guest@example.com")

	guest := s.signin("guest@example.com")
	w = s.multipart(http.MethodPost, "/user/verification", guest.AccessToken,
		map[string]string{"fullname": "Guest Name", "address": "1 Tran Phu", "phone": "0900"},
		map[string]string{"frontId": "f.jpg", "backId": "b.jpg", "businessCertificate": "c.jpg"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.json(http.MethodGet, "/admin/requests", admin.AccessToken, nil)
	requests := decode[struct {
		Requests []model.VerificationRequest `json:"requests"`
	}](t, w).Requests
	require.Len(t, requests, 1)
	assert.Equal(t, "guest@example.com", requests[0].Email)

	w = s.json(http.MethodPost, "/admin/requests/"+requests[0].RequestID+"/accept", admin.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.json(http.MethodGet, "/user/navigation", guest.AccessToken, nil)
	nav := decode[dto.Navigation](t, w)
	assert.True(t, nav.Menu.Service)
	assert.False(t, nav.Menu.UpdateAccount)

	w = s.json(http.MethodPost, "/admin/homepage", admin.AccessToken, dto.PanelRequest{ImageURL: "https://cdn.example.com/a.jpg"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = s.do(httptest.NewRequest(http.MethodGet, "/homepage", nil), "")
	assert.Contains(t, w.Body.String(), "https://cdn.example.com/a.jpg")
}
