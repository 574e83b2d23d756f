// Package fakebooker is an in-memory implementation of the bookings wire contract,
// used by the harness's own tests. It reproduces the quirks of the live service that
// the client contract depends on: 200-with-reason for bad credentials, 201 for both
// ping and delete, and 405 for mutations of an absent id.
package fakebooker

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/retailqa/storefront-contract-tests/booker"
)

type Service struct {
	username string
	password string
	router   *mux.Router

	lock     sync.Mutex
	bookings map[int]booker.Booking
	tokens   map[string]bool
	lastID   int
}

func New(username, password string) *Service {
	s := &Service{
		username: username,
		password: password,
		bookings: make(map[int]booker.Booking),
		tokens:   make(map[string]bool),
	}
	r := mux.NewRouter()
	r.HandleFunc("/ping", s.ping).Methods("GET")
	r.HandleFunc("/auth", s.auth).Methods("POST")
	r.HandleFunc("/booking", s.createBooking).Methods("POST")
	r.HandleFunc("/booking", s.listBookings).Methods("GET")
	r.HandleFunc("/booking/{id}", s.getBooking).Methods("GET")
	r.HandleFunc("/booking/{id}", s.updateBooking).Methods("PUT")
	r.HandleFunc("/booking/{id}", s.patchBooking).Methods("PATCH")
	r.HandleFunc("/booking/{id}", s.deleteBooking).Methods("DELETE")
	s.router = r
	return s
}

func (s *Service) Handler() http.Handler { return s.router }

// BookingCount reports how many bookings currently exist, for leak checks in tests.
func (s *Service) BookingCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.bookings)
}

func (s *Service) ping(w http.ResponseWriter, req *http.Request) {
	w.WriteHeader(http.StatusCreated)
}

func (s *Service) auth(w http.ResponseWriter, req *http.Request) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&creds); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if creds.Username != s.username || creds.Password != s.password {
		writeJSON(w, http.StatusOK, map[string]string{"reason": "Bad credentials"})
		return
	}
	token := uuid.NewString()
	s.lock.Lock()
	s.tokens[token] = true
	s.lock.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Service) createBooking(w http.ResponseWriter, req *http.Request) {
	var b booker.Booking
	if err := json.NewDecoder(req.Body).Decode(&b); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	s.lock.Lock()
	s.lastID++
	id := s.lastID
	s.bookings[id] = b
	s.lock.Unlock()
	writeJSON(w, http.StatusOK, booker.BookingResult{ID: id, Booking: b})
}

func (s *Service) listBookings(w http.ResponseWriter, req *http.Request) {
	first := req.URL.Query().Get("firstname")
	last := req.URL.Query().Get("lastname")
	type idItem struct {
		ID int `json:"bookingid"`
	}
	items := []idItem{}
	s.lock.Lock()
	for id, b := range s.bookings {
		if (first == "" || b.FirstName == first) && (last == "" || b.LastName == last) {
			items = append(items, idItem{ID: id})
		}
	}
	s.lock.Unlock()
	writeJSON(w, http.StatusOK, items)
}

func (s *Service) getBooking(w http.ResponseWriter, req *http.Request) {
	id := pathID(req)
	s.lock.Lock()
	b, ok := s.bookings[id]
	s.lock.Unlock()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Service) updateBooking(w http.ResponseWriter, req *http.Request) {
	if !s.authorized(req) {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	var b booker.Booking
	if err := json.NewDecoder(req.Body).Decode(&b); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	id := pathID(req)
	s.lock.Lock()
	_, ok := s.bookings[id]
	if ok {
		s.bookings[id] = b
	}
	s.lock.Unlock()
	if !ok {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Service) patchBooking(w http.ResponseWriter, req *http.Request) {
	if !s.authorized(req) {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	var fields map[string]json.RawMessage
	if err := json.NewDecoder(req.Body).Decode(&fields); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	id := pathID(req)
	s.lock.Lock()
	b, ok := s.bookings[id]
	if ok {
		applyPatch(&b, fields)
		s.bookings[id] = b
	}
	s.lock.Unlock()
	if !ok {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Service) deleteBooking(w http.ResponseWriter, req *http.Request) {
	if !s.authorized(req) {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	id := pathID(req)
	s.lock.Lock()
	_, ok := s.bookings[id]
	delete(s.bookings, id)
	s.lock.Unlock()
	if !ok {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func applyPatch(b *booker.Booking, fields map[string]json.RawMessage) {
	if raw, ok := fields["firstname"]; ok {
		_ = json.Unmarshal(raw, &b.FirstName)
	}
	if raw, ok := fields["lastname"]; ok {
		_ = json.Unmarshal(raw, &b.LastName)
	}
	if raw, ok := fields["totalprice"]; ok {
		_ = json.Unmarshal(raw, &b.TotalPrice)
	}
	if raw, ok := fields["depositpaid"]; ok {
		_ = json.Unmarshal(raw, &b.DepositPaid)
	}
	if raw, ok := fields["bookingdates"]; ok {
		_ = json.Unmarshal(raw, &b.Dates)
	}
	if raw, ok := fields["additionalneeds"]; ok {
		_ = json.Unmarshal(raw, &b.AdditionalNeeds)
	}
}

func (s *Service) authorized(req *http.Request) bool {
	cookie, err := req.Cookie("token")
	if err != nil {
		return false
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.tokens[cookie.Value]
}

func pathID(req *http.Request) int {
	id, _ := strconv.Atoi(mux.Vars(req)["id"])
	return id
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
