package api

import (
	"context"
	"net/http"

	"github.com/patungan/splitbill/internal/export"
	"github.com/patungan/splitbill/internal/format"
	"github.com/patungan/splitbill/internal/models"
	"github.com/patungan/splitbill/internal/session"
	"github.com/patungan/splitbill/internal/storage"
)

type itemRequest struct {
	Name       string  `json:"name"`
	Quantity   float64 `json:"quantity"`
	TotalPrice float64 `json:"total_price"`
}

type personRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type assignRequest struct {
	Item     string  `json:"item"`
	Person   string  `json:"person"`
	Quantity float64 `json:"quantity"`
}

type taxRequest struct {
	Amount float64 `json:"amount"`
}

type restaurantRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type accountRequest struct {
	Label  string `json:"label"`
	Detail string `json:"detail"`
}

type credentialsRequest struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	From     string `json:"from"`
}

type restoreRequest struct {
	ID string `json:"id"`
}

type emailRequest struct {
	// Person limits delivery to one participant; empty sends to everyone
	// with an email address.
	Person string `json:"person"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":         sess.ID,
		"created_at": sess.CreatedAt.Unix(),
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	s.sessions.Delete(sess.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpsertItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	var req itemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if s.apply(w, sess, session.UpsertItem(req.Name, req.Quantity, req.TotalPrice)) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (s *Server) handleUpsertPerson(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	var req personRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if s.apply(w, sess, session.UpsertPerson(req.Name, req.Email)) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (s *Server) handleAssignAdditive(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	var req assignRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if s.apply(w, sess, session.AssignAdditive(req.Item, req.Person, req.Quantity)) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (s *Server) handleAssignExact(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	var req assignRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if s.apply(w, sess, session.AssignExact(req.Item, req.Person, req.Quantity)) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (s *Server) handleSetTax(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	var req taxRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if s.apply(w, sess, session.SetTax(req.Amount)) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (s *Server) handleSetRestaurant(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	var req restaurantRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	cmd := session.SetRestaurant(models.RestaurantInfo{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if s.apply(w, sess, cmd) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (s *Server) handleSetInitiator(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	var req personRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if s.apply(w, sess, session.SetInitiator(req.Name, req.Email)) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (s *Server) handleAddAccount(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	var req accountRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if s.apply(w, sess, session.AddAccount(req.Label, req.Detail)) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	if s.apply(w, sess, session.Reset()) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

type stateItem struct {
	Name       string  `json:"name"`
	Quantity   float64 `json:"quantity"`
	TotalPrice float64 `json:"total_price"`
	UnitPrice  float64 `json:"unit_price"`
	Remaining  float64 `json:"remaining"`
}

type stateShare struct {
	Person   string  `json:"person"`
	Item     string  `json:"item"`
	Quantity float64 `json:"quantity"`
}

type stateResponse struct {
	ID         string            `json:"id"`
	Restaurant restaurantRequest `json:"restaurant"`
	Initiator  initiatorState    `json:"initiator"`
	Items      []stateItem       `json:"items"`
	People     []personRequest   `json:"people"`
	Shares     []stateShare      `json:"shares"`
	TaxTotal   float64           `json:"tax_total"`
}

type initiatorState struct {
	Name     string           `json:"name"`
	Email    string           `json:"email"`
	Accounts []accountRequest `json:"accounts"`
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	snap := sess.Snapshot()

	assigned := make(map[string]float64)
	for _, share := range snap.Shares {
		assigned[share.Item] += share.Quantity
	}

	resp := stateResponse{
		ID: snap.ID,
		Restaurant: restaurantRequest{
			Name:    snap.Restaurant.Name,
			Phone:   snap.Restaurant.Phone,
			Address: snap.Restaurant.Address,
		},
		Initiator: initiatorState{
			Name:  snap.Initiator.Name,
			Email: snap.Initiator.Email,
		},
		TaxTotal: snap.TaxTotal,
	}
	for _, acc := range snap.Initiator.Accounts {
		resp.Initiator.Accounts = append(resp.Initiator.Accounts, accountRequest{Label: acc.Label, Detail: acc.Detail})
	}
	for _, item := range snap.Items {
		resp.Items = append(resp.Items, stateItem{
			Name:       item.Name,
			Quantity:   item.Quantity,
			TotalPrice: item.TotalPrice,
			UnitPrice:  item.UnitPrice(),
			Remaining:  item.Quantity - assigned[item.Name],
		})
	}
	for _, person := range snap.People {
		resp.People = append(resp.People, personRequest{Name: person.Name, Email: person.Email})
	}
	for _, share := range snap.Shares {
		resp.Shares = append(resp.Shares, stateShare{Person: share.Person, Item: share.Item, Quantity: share.Quantity})
	}

	writeJSON(w, http.StatusOK, resp)
}

type breakdownLine struct {
	Item      string  `json:"item"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Amount    float64 `json:"amount"`
}

type personBreakdown struct {
	Name     string          `json:"name"`
	Email    string          `json:"email,omitempty"`
	Lines    []breakdownLine `json:"lines"`
	Subtotal float64         `json:"subtotal"`
	TaxShare float64         `json:"tax_share"`
	Total    float64         `json:"total"`
}

type summaryResponse struct {
	Restaurant restaurantRequest `json:"restaurant"`
	Initiator  initiatorState    `json:"initiator"`
	People     []personBreakdown `json:"people"`
	Subtotal   float64           `json:"subtotal"`
	TaxTotal   float64           `json:"tax_total"`
	GrandTotal float64           `json:"grand_total"`
}

func toSummaryResponse(summary models.Summary) summaryResponse {
	resp := summaryResponse{
		Restaurant: restaurantRequest{
			Name:    summary.Restaurant.Name,
			Phone:   summary.Restaurant.Phone,
			Address: summary.Restaurant.Address,
		},
		Initiator: initiatorState{
			Name:  summary.Initiator.Name,
			Email: summary.Initiator.Email,
		},
		Subtotal:   summary.Subtotal,
		TaxTotal:   summary.TaxTotal,
		GrandTotal: summary.GrandTotal,
	}
	for _, acc := range summary.Initiator.Accounts {
		resp.Initiator.Accounts = append(resp.Initiator.Accounts, accountRequest{Label: acc.Label, Detail: acc.Detail})
	}
	for _, person := range summary.People {
		pb := personBreakdown{
			Name:     person.Name,
			Email:    person.Email,
			Subtotal: person.Subtotal,
			TaxShare: person.TaxShare,
			Total:    person.Total,
		}
		for _, line := range person.Lines {
			pb.Lines = append(pb.Lines, breakdownLine{
				Item:      line.Item,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
				Amount:    line.Amount,
			})
		}
		resp.People = append(resp.People, pb)
	}
	return resp
}

func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	summariesTotal.Inc()
	writeJSON(w, http.StatusOK, toSummaryResponse(sess.Summary()))
}

func (s *Server) handleExportImage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	data, err := export.RenderPNG(sess.Summary())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	exportsTotal.WithLabelValues("png").Inc()

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.SummaryFilename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

type mailtoEntry struct {
	Person string `json:"person"`
	Email  string `json:"email"`
	URL    string `json:"url"`
}

func (s *Server) handleExportMailto(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	summary := sess.Summary()
	subject := format.Subject(summary.Restaurant.Name)

	drafts := []mailtoEntry{}
	for _, person := range summary.People {
		if person.Email == "" {
			continue
		}
		body := format.EmailBody(summary, person)
		drafts = append(drafts, mailtoEntry{
			Person: person.Name,
			Email:  person.Email,
			URL:    export.MailtoURL(person.Email, subject, body),
		})
	}
	exportsTotal.WithLabelValues("mailto").Inc()
	writeJSON(w, http.StatusOK, map[string]any{"drafts": drafts})
}

func (s *Server) handleExportEmail(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	var req emailRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	summary := sess.Summary()
	subject := format.Subject(summary.Restaurant.Name)

	mailer, err := s.newMailer(s.smtpOptions(r.Context()))
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	attachment, err := export.RenderPNG(summary)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	sent := []string{}
	skipped := []string{}
	for _, person := range summary.People {
		if req.Person != "" && person.Name != req.Person {
			continue
		}
		if person.Email == "" {
			skipped = append(skipped, person.Name)
			continue
		}
		body := format.EmailBody(summary, person)
		if err := mailer.Send(r.Context(), person.Email, subject, body, attachment); err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		sent = append(sent, person.Name)
	}
	exportsTotal.WithLabelValues("email").Inc()
	writeJSON(w, http.StatusOK, map[string]any{"sent": sent, "skipped": skipped})
}

// smtpOptions prefers credentials from the store, falling back to config.
func (s *Server) smtpOptions(ctx context.Context) export.SMTPOptions {
	if s.store != nil {
		if creds, err := s.store.LoadSMTPCredentials(ctx); err == nil {
			return export.SMTPOptions{
				Host:     creds.Host,
				Port:     creds.Port,
				Username: creds.Username,
				Password: creds.Password,
				From:     creds.From,
			}
		}
	}
	return export.SMTPOptions{
		Host:     s.smtp.Host,
		Port:     s.smtp.Port,
		Username: s.smtp.Username,
		Password: s.smtp.Password,
		From:     s.smtp.From,
	}
}

func (s *Server) handleSaveSession(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotImplemented, "storage not configured")
		return
	}
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	snap := sess.Snapshot()
	if err := s.store.SaveSession(r.Context(), &snap); err != nil {
		writeError(w, statusFromError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": snap.ID, "saved_at": snap.SavedAt})
}

func (s *Server) handleRestoreSession(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotImplemented, "storage not configured")
		return
	}
	var req restoreRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	snap, err := s.store.LoadSession(r.Context(), req.ID)
	if err != nil {
		writeError(w, statusFromError(err), err.Error())
		return
	}

	sess := s.sessions.Create()
	sess.Restore(*snap)
	writeJSON(w, http.StatusCreated, map[string]any{"id": sess.ID, "restored_from": req.ID})
}

type savedEntry struct {
	ID             string `json:"id"`
	SavedAt        int64  `json:"saved_at"`
	RestaurantName string `json:"restaurant_name,omitempty"`
}

func (s *Server) handleListSaved(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotImplemented, "storage not configured")
		return
	}
	metas, err := s.store.ListSessions(r.Context())
	if err != nil {
		writeError(w, statusFromError(err), err.Error())
		return
	}
	entries := []savedEntry{}
	for _, meta := range metas {
		entries = append(entries, savedEntry{
			ID:             meta.ID,
			SavedAt:        meta.SavedAt,
			RestaurantName: meta.RestaurantName,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": entries})
}

func (s *Server) handleSaveCredentials(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotImplemented, "storage not configured")
		return
	}
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	creds := &storage.SMTPCredentials{
		Host:     req.Host,
		Port:     req.Port,
		Username: req.Username,
		Password: req.Password,
		From:     req.From,
	}
	if err := s.store.SaveSMTPCredentials(r.Context(), creds); err != nil {
		writeError(w, statusFromError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
