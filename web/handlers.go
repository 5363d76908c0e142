package web

import (
	"bytes"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/sihwankim2023/kd-boiler-checker/document"
	"github.com/sihwankim2023/kd-boiler-checker/metrics"
	"github.com/sihwankim2023/kd-boiler-checker/report"
	"github.com/sihwankim2023/kd-boiler-checker/selector"
	"github.com/sihwankim2023/kd-boiler-checker/session"
	"github.com/sihwankim2023/kd-boiler-checker/wizard"
)

const (
	mimeXLSX         = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	historyFileName  = "연소기_변경_확인서_이력.xlsx"
	catalogXLSXName  = "급배기전환_모델목록.xlsx"
	formatPDF        = "pdf"
	qualifyAccepted  = "accepted"
	qualifyRejected  = "rejected"
	qualifyUnchecked = "unanswered"
)

// page is what a handler decided to send once the session lock is released.
type page struct {
	status   int
	data     pageData
	redirect bool
}

func (s *Server) send(w http.ResponseWriter, r *http.Request, p page) error {
	if p.redirect {
		redirectHome(w, r)
		return nil
	}
	return writeHTML(w, p.status, pageTmpl, "PAGE", p.data)
}

// show snapshots the page of the wizard's current state.
func (s *Server) show(wz *wizard.Wizard, status int, message string) page {
	return page{status: status, data: snapshot(wz, s.now(), message)}
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) error {
	var p page
	err := s.withWizard(r, func(wz *wizard.Wizard) error {
		if wz.State() == wizard.StateProductSelection {
			wz.FillDefaults()
		}
		p = s.show(wz, http.StatusOK, "")
		return nil
	})
	if err != nil {
		return err
	}
	return s.send(w, r, p)
}

func (s *Server) qualification(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return errors.Wrap(err, "parse form")
	}
	answer := r.PostForm.Get("qualification")

	var p page
	err := s.withWizard(r, func(wz *wizard.Wizard) error {
		err := wz.Qualify(answer)
		var blocked *wizard.Blocked
		switch {
		case err == nil:
			s.metrics.Qualification.WithLabelValues(qualifyAccepted).Inc()
			p.redirect = true
		case errors.As(err, &blocked):
			result := qualifyRejected
			if answer == "" {
				result = qualifyUnchecked
			}
			s.metrics.Qualification.WithLabelValues(result).Inc()
			s.log.Debug("qualification blocked", zap.String("answer", answer))
			p = s.show(wz, http.StatusOK, blocked.Message)
		case errors.Is(err, wizard.ErrWrongState):
			p.redirect = true
		default:
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	return s.send(w, r, p)
}

// applySelection applies the posted dropdown values in step order. A value that is no longer a
// candidate clears its step so the defaults pick a valid one again.
func applySelection(wz *wizard.Wizard, form url.Values) error {
	for _, step := range selector.Steps {
		if _, ok := form[step.String()]; !ok {
			continue
		}
		value := form.Get(step.String())
		if value == wz.Selection().Get(step) {
			continue
		}
		if value == "" {
			wz.Clear(step)
			continue
		}
		err := wz.Choose(step, value)
		switch {
		case err == nil:
		case errors.Is(err, selector.ErrNotCandidate), errors.Is(err, selector.ErrIncomplete):
			wz.Clear(step)
		default:
			return err
		}
	}
	return nil
}

func (s *Server) selection(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return errors.Wrap(err, "parse form")
	}
	err := s.withWizard(r, func(wz *wizard.Wizard) error {
		if wz.State() != wizard.StateProductSelection {
			return nil
		}
		return applySelection(wz, r.PostForm)
	})
	if err != nil {
		return err
	}
	redirectHome(w, r)
	return nil
}

func (s *Server) decide(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return errors.Wrap(err, "parse form")
	}
	var p page
	err := s.withWizard(r, func(wz *wizard.Wizard) error {
		if wz.State() != wizard.StateProductSelection {
			p.redirect = true
			return nil
		}
		if err := applySelection(wz, r.PostForm); err != nil {
			return err
		}
		wz.FillDefaults()
		d, err := wz.Decide()
		switch {
		case err == nil:
			s.metrics.Decisions.WithLabelValues(d.Outcome.String()).Inc()
			s.log.Debug("decision",
				zap.String("outcome", d.Outcome.String()),
				zap.String("appliance", d.ApplianceName()),
			)
			p.redirect = true
		case errors.Is(err, selector.ErrIncomplete):
			p = s.show(wz, http.StatusOK, selector.NotFoundMessage)
		default:
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	return s.send(w, r, p)
}

func (s *Server) proceed(w http.ResponseWriter, r *http.Request) error {
	var p page
	err := s.withWizard(r, func(wz *wizard.Wizard) error {
		err := wz.Proceed()
		var blocked *wizard.Blocked
		switch {
		case err == nil, errors.Is(err, wizard.ErrWrongState):
			p.redirect = true
		case errors.As(err, &blocked):
			s.log.Debug("proceed blocked", zap.String("reason", blocked.Message))
			p = s.show(wz, http.StatusOK, blocked.Message)
		default:
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	return s.send(w, r, p)
}

func (s *Server) back(w http.ResponseWriter, r *http.Request) error {
	err := s.withWizard(r, func(wz *wizard.Wizard) error {
		wz.Back()
		return nil
	})
	if err != nil {
		return err
	}
	redirectHome(w, r)
	return nil
}

func (s *Server) restart(w http.ResponseWriter, r *http.Request) error {
	err := s.withWizard(r, func(wz *wizard.Wizard) error {
		wz.Restart()
		return nil
	})
	if err != nil {
		return err
	}
	redirectHome(w, r)
	return nil
}

// form stores the posted fields and answers with the requested document. Rendering runs outside
// the session lock.
func (s *Server) form(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return errors.Wrap(err, "parse form")
	}

	var (
		p     page
		form  document.Form
		ready bool
	)
	err := s.withWizard(r, func(wz *wizard.Wizard) error {
		if wz.State() != wizard.StateFormEntry {
			p.redirect = true
			return nil
		}
		for _, name := range wizard.FormFields {
			if _, ok := r.PostForm[name]; ok {
				if err := wz.SetField(name, r.PostForm.Get(name)); err != nil {
					return err
				}
			}
		}
		var err error
		form, err = wz.Form(s.now())
		switch {
		case err == nil:
			ready = true
		case errors.Is(err, document.ErrIncomplete), errors.Is(err, document.ErrUnknownQualification):
			s.metrics.Renders.WithLabelValues(metrics.RenderIncomplete).Inc()
			p = s.show(wz, http.StatusUnprocessableEntity, err.Error())
		default:
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !ready {
		return s.send(w, r, p)
	}

	out, err := s.renderer.Render(form)
	if err != nil {
		s.metrics.Renders.WithLabelValues(metrics.RenderFailed).Inc()
		s.log.Error("failed to render confirmation documents",
			zap.String("appliance", form.ApplianceName),
			zap.Error(err),
		)
		err = s.withWizard(r, func(wz *wizard.Wizard) error {
			p = s.show(wz, http.StatusInternalServerError, RenderFailedMessage)
			return nil
		})
		if err != nil {
			return err
		}
		return s.send(w, r, p)
	}

	err = s.withWizard(r, func(wz *wizard.Wizard) error {
		wz.Record(form)
		return nil
	})
	switch {
	case errors.Is(err, session.ErrNotFound):
		// The session expired while rendering, the documents are still delivered.
		s.log.Warn("session expired before recording the form", zap.String("file", out.BaseName))
	case err != nil:
		return err
	}
	s.metrics.Renders.WithLabelValues(metrics.RenderOK).Inc()
	s.log.Info("rendered confirmation documents",
		zap.String("appliance", form.ApplianceName),
		zap.String("file", out.BaseName),
	)

	if r.PostForm.Get("format") == formatPDF {
		writeAttachment(w, out.PDFFileName(), document.MIMEPDF, out.PDF)
	} else {
		writeAttachment(w, out.WordFileName(), document.MIMEWord, out.Word)
	}
	return nil
}

func (s *Server) historyXLSX(w http.ResponseWriter, r *http.Request) error {
	var history []document.Form
	err := s.withWizard(r, func(wz *wizard.Wizard) error {
		history = wz.History()
		return nil
	})
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := report.WriteHistoryXLSX(&buf, history); err != nil {
		return err
	}
	writeAttachment(w, historyFileName, mimeXLSX, buf.Bytes())
	return nil
}
