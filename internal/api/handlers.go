package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bher20/locadora/internal/listings"
	"github.com/bher20/locadora/internal/quote"
)

// ListingView is a listing enriched with its derived attributes.
type ListingView struct {
	listings.Listing
	Lead  bool        `json:"lead"`
	Specs quote.Specs `json:"specs"`
}

// TableResponse is the listing table as served by the API.
type TableResponse struct {
	Source    string        `json:"source"`
	FetchedAt time.Time     `json:"fetched_at"`
	Stale     bool          `json:"stale"`
	Warning   string        `json:"warning,omitempty"`
	Count     int           `json:"count"`
	Listings  []ListingView `json:"listings"`
}

// QuoteResponse is a quotation plus its copy-ready text.
type QuoteResponse struct {
	*quote.Quotation
	Text string `json:"text"`
}

// EmailQuoteRequest quotes and emails the result to To.
type EmailQuoteRequest struct {
	quote.Request
	To string `json:"to" validate:"required,email"`
}

// EmailQuoteResponse confirms a sent quotation.
type EmailQuoteResponse struct {
	Reference string `json:"reference"`
	SentTo    string `json:"sent_to"`
	Subject   string `json:"subject"`
}

func (s *Server) view(l listings.Listing) ListingView {
	return ListingView{Listing: l, Lead: quote.IsLead(l, s.ceiling), Specs: quote.ResolveSpecs(l.Name)}
}

func (s *Server) tableResponse(t *listings.Table) TableResponse {
	views := make([]ListingView, 0, len(t.Listings))
	for _, l := range t.Listings {
		views = append(views, s.view(l))
	}
	return TableResponse{
		Source:    t.Source,
		FetchedAt: t.FetchedAt,
		Stale:     t.Stale,
		Warning:   t.Warning,
		Count:     len(views),
		Listings:  views,
	}
}

func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, quote.Locations())
}

func (s *Server) handleListings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tableResponse(s.listings.Table(r.Context())))
}

func (s *Server) handleListing(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vehicle name")
		return
	}
	l, _, err := s.listings.Get(r.Context(), name)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.view(l))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	t, err := s.listings.ForceRefresh(r.Context())
	if err != nil {
		s.log.Warn("api: manual refresh failed", "error", err)
		writeError(w, http.StatusBadGateway, "falha ao atualizar a planilha: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.tableResponse(t))
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	var req quote.Request
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	q, err := s.quotes.Quote(r.Context(), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, QuoteResponse{Quotation: q, Text: q.Message.Text()})
}

func (s *Server) handleQuoteEmail(w http.ResponseWriter, r *http.Request) {
	var req EmailQuoteRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	if !s.mailer.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "envio de e-mail não configurado")
		return
	}
	q, err := s.quotes.Quote(r.Context(), req.Request)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if err := s.mailer.SendQuote(r.Context(), req.To, q); err != nil {
		s.log.Error("api: send quote failed", "reference", q.Reference, "error", err)
		writeError(w, http.StatusBadGateway, "falha ao enviar o e-mail")
		return
	}
	writeJSON(w, http.StatusOK, EmailQuoteResponse{Reference: q.Reference, SentTo: req.To, Subject: q.Message.Subject})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("live"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		s.log.Warn("api: readyz storage ping failed", "error", err)
		http.Error(w, "storage not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
