package server

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/barchart/pkg/board"
	"github.com/matzehuels/barchart/pkg/buildinfo"
	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/demo"
	"github.com/matzehuels/barchart/pkg/errors"
	"github.com/matzehuels/barchart/pkg/measure"
	"github.com/matzehuels/barchart/pkg/sink"
)

const maxBodyBytes = 1 << 20

// chartJSON is the wire form of a chart.
type chartJSON struct {
	ID          uuid.UUID         `json:"id"`
	Orientation chart.Orientation `json:"orientation"`
	Title       string            `json:"title"`
	Color       string            `json:"color"`
	Data        chart.Dataset     `json:"data"`
	ViewBox     measure.Rect      `json:"viewBox"`
}

func toJSON(id uuid.UUID, c *chart.Chart) chartJSON {
	return chartJSON{
		ID:          id,
		Orientation: c.Orientation(),
		Title:       c.Title(),
		Color:       c.Color(),
		Data:        c.Data(),
		ViewBox:     c.ViewBox(),
	}
}

type createRequest struct {
	Orientation string          `json:"orientation"`
	Title       string          `json:"title"`
	Color       string          `json:"color"`
	Data        json.RawMessage `json:"data"`
	Width       float64         `json:"width"`
	Height      float64         `json:"height"`
	Margin      chart.Margin    `json:"margin"`
}

type updateRequest struct {
	Data  json.RawMessage `json:"data"`
	Color string          `json:"color"`
	Title string          `json:"title"`
}

type clickRequest struct {
	Ctrl bool `json:"ctrl"`
	Alt  bool `json:"alt"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": buildinfo.Version,
		"charts":  s.board.Len(),
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var page []byte
	err := s.board.View(func(handles []board.Handle) error {
		entries := make([]sink.Entry, len(handles))
		for i, h := range handles {
			entries[i] = sink.Entry{ID: h.ID.String(), Source: h.Chart}
		}
		var err error
		page, err = s.renderPage(entries)
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	out := []chartJSON{}
	err := s.board.Range(func(h board.Handle) error {
		out = append(out, toJSON(h.ID, h.Chart))
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Orientation == "" {
		req.Orientation = chart.Horizontal.String()
	}
	o, err := chart.ParseOrientation(req.Orientation)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := parseData(req.Data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := s.chartOptions()
	if req.Color != "" {
		opts = append(opts, chart.WithColor(req.Color))
	}
	if req.Width > 0 {
		opts = append(opts, chart.WithWidth(req.Width))
	}
	if req.Height > 0 {
		opts = append(opts, chart.WithHeight(req.Height))
	}
	if req.Margin != (chart.Margin{}) {
		opts = append(opts, chart.WithMargin(req.Margin))
	}

	c, err := chart.New(r.Context(), o, data, req.Title, opts...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id := s.board.Add(c)
	s.logger.Debug("created chart", "id", id, "orientation", o, "bars", len(data))
	w.Header().Set("Location", "/charts/"+id.String())
	writeJSON(w, http.StatusCreated, toJSON(id, c))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	s.withChart(w, r, func(id uuid.UUID, c *chart.Chart) error {
		writeJSON(w, http.StatusOK, toJSON(id, c))
		return nil
	})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	u := chart.Update{Color: req.Color, Title: req.Title}
	if len(req.Data) > 0 && !bytes.Equal(bytes.TrimSpace(req.Data), []byte("null")) {
		data, err := parseData(req.Data)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		u.Data = data
	}
	s.withChart(w, r, func(id uuid.UUID, c *chart.Chart) error {
		if err := c.Update(r.Context(), u); err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, toJSON(id, c))
		return nil
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := chartID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.board.Remove(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	s.withChart(w, r, func(_ uuid.UUID, c *chart.Chart) error {
		return writeSVG(w, c)
	})
}

func (s *Server) handlePNG(w http.ResponseWriter, r *http.Request) {
	s.withChart(w, r, func(_ uuid.UUID, c *chart.Chart) error {
		png, err := s.runner.RenderPNG(r.Context(), c, s.pngOpts)
		if err != nil {
			return err
		}
		w.Header().Set("Content-Type", "image/png")
		_, err = w.Write(png)
		return err
	})
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var req clickRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := chartID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	mods := demo.Modifiers{Ctrl: req.Ctrl, Alt: req.Alt}
	if err := s.board.Click(r.Context(), id, mods); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Debug("click", "id", id, "modifiers", mods)
	s.withChart(w, r, func(_ uuid.UUID, c *chart.Chart) error {
		return writeSVG(w, c)
	})
}

// withChart runs fn on the chart named by the {id} parameter under the
// board lock, writing any error as JSON.
func (s *Server) withChart(w http.ResponseWriter, r *http.Request, fn func(uuid.UUID, *chart.Chart) error) {
	id, err := chartID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.board.With(id, func(c *chart.Chart) error { return fn(id, c) }); err != nil {
		s.writeError(w, r, err)
	}
}

func (s *Server) renderPage(entries []sink.Entry) ([]byte, error) {
	return sink.RenderHTML(entries,
		sink.WithPageTitle("barchart"),
		sink.WithClickURL("/charts/{id}/click"),
	)
}

func writeSVG(w http.ResponseWriter, c *chart.Chart) error {
	svg, err := sink.RenderSVG(c)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("X-Chart-Title", c.Title())
	_, err = w.Write(svg)
	return err
}

func chartID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.New(errors.ErrCodeNotFound, "chart %q not found", raw)
	}
	return id, nil
}

func parseData(raw json.RawMessage) (chart.Dataset, error) {
	if len(raw) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidData, "data is required")
	}
	return chart.ParseDataset(raw)
}

// decode reads a JSON body into v. An empty body leaves v unchanged.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil && !stderrors.Is(err, io.EOF) {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}
