package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/wastewise/wastewise-console/internal/dwellers"
	"github.com/wastewise/wastewise-console/internal/shared"
	"github.com/wastewise/wastewise-console/internal/upstream"
	"github.com/wastewise/wastewise-console/internal/view"
)

const maxRegisterUploadBytes = 10 << 20

// Registrar creates a resident account upstream. Registration is
// anonymous, so the call carries no bearer token.
type Registrar interface {
	Create(ctx context.Context, token string, form dwellers.CreateDwellerForm, picture *upstream.FilePart) (*dwellers.Dweller, error)
}

type registerPageData struct {
	Form   dwellers.CreateDwellerForm
	Errors map[string]string
}

func (h *Handler) showRegister(w http.ResponseWriter, r *http.Request) {
	if p := shared.PrincipalFromContext(r.Context()); p != nil {
		http.Redirect(w, r, shared.HomePath, http.StatusSeeOther)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrfManager.EnsureToken(r.Context(), sess)
	h.renderRegister(w, r, csrfToken, registerPageData{})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if p := shared.PrincipalFromContext(r.Context()); p != nil {
		http.Redirect(w, r, shared.HomePath, http.StatusSeeOther)
		return
	}
	if err := r.ParseMultipartForm(maxRegisterUploadBytes); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrfManager.EnsureToken(r.Context(), sess)

	form := dwellers.CreateDwellerForm{
		FullName:     r.PostFormValue("fullName"),
		Email:        r.PostFormValue("email"),
		PhoneNumber:  r.PostFormValue("phoneNumber"),
		Password:     r.PostFormValue("password"),
		AddressLine1: r.PostFormValue("addressLine1"),
		HouseNumber:  r.PostFormValue("houseNumber"),
		City:         r.PostFormValue("city"),
		PostalCode:   r.PostFormValue("postalCode"),
	}
	formErrors := make(map[string]string)
	if err := h.validator.Struct(form); err != nil {
		for _, fieldErr := range err.(validator.ValidationErrors) {
			formErrors[fieldErr.Field()] = "this field is required"
		}
	}

	if len(formErrors) == 0 {
		var picture *upstream.FilePart
		if file, header, err := r.FormFile("profilePicture"); err == nil {
			defer func() {
				_ = file.Close()
			}()
			picture = &upstream.FilePart{Field: "profilePicture", Filename: header.Filename, Content: file}
		}

		_, err := h.registrar.Create(r.Context(), "", form, picture)
		var statusErr *upstream.StatusError
		switch {
		case err == nil:
			if sess != nil {
				sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "Account created, sign in to continue"})
			}
			http.Redirect(w, r, shared.LoginPath, http.StatusSeeOther)
			return
		case errors.As(err, &statusErr):
			if statusErr.Message != "" {
				formErrors["general"] = statusErr.Message
			} else {
				formErrors["general"] = "Registration was rejected"
			}
		default:
			h.logger.Error("register", slog.Any("error", err))
			formErrors["general"] = "Registration is unavailable right now, try again"
		}
	}

	form.Password = ""
	w.WriteHeader(http.StatusBadRequest)
	h.renderRegister(w, r, csrfToken, registerPageData{Form: form, Errors: formErrors})
}

func (h *Handler) renderRegister(w http.ResponseWriter, r *http.Request, csrfToken string, data registerPageData) {
	sess := shared.SessionFromContext(r.Context())
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Register",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if err := h.templates.Render(w, "pages/register.html", viewData); err != nil {
		h.logger.Error("render register", slog.Any("error", err))
	}
}
