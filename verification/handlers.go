package verification

import (
	"context"
	"errors"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"agribridge/filemgr"
	"agribridge/utils"

	"github.com/julienschmidt/httprouter"
)

type Handlers struct {
	svc *Service
}

func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// Submit accepts the multipart verification form: both ID card sides plus the
// national ID number. Missing files fail before anything is stored.
func (h *Handlers) Submit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	farmerID := utils.GetUserIDFromRequest(r)
	if farmerID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(16 << 20); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	frontURL := saveDocument(r, "id_card_front", farmerID)
	backURL := saveDocument(r, "id_card_back", farmerID)

	err := h.svc.Submit(ctx, farmerID, frontURL, backURL, r.FormValue("national_id"))
	if err != nil {
		respondVerificationError(w, err)
		return
	}

	utils.SendResponse(w, http.StatusOK, nil,
		"Documents submitted. Your verification request is under review.", nil)
}

// Approve marks a farmer verified. Admin only (enforced in routes).
func (h *Handlers) Approve(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.svc.Approve(ctx, ps.ByName("farmerid")); err != nil {
		respondVerificationError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

// Decline purges the applicant account. Admin only.
func (h *Handlers) Decline(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.svc.Decline(ctx, ps.ByName("farmerid")); err != nil {
		respondVerificationError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

// Documents lists the stored files for one applicant so an admin can review
// them. Admin only.
func (h *Handlers) Documents(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	farmerID := ps.ByName("farmerid")
	if _, err := h.svc.profiles.Find(ctx, farmerID); err != nil {
		respondVerificationError(w, ErrFarmerNotFound)
		return
	}

	files, err := filemgr.ListTree(filemgr.EntityVerification, farmerID)
	if err != nil {
		log.Println("listing verification documents failed:", err)
		http.Error(w, "Could not list documents", http.StatusInternalServerError)
		return
	}

	urls := make([]string, 0, len(files))
	for _, f := range files {
		urls = append(urls, "/"+filepath.ToSlash(f))
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"documents": urls})
}

// saveDocument stores one uploaded side if present; an absent file yields ""
// so the service can report which side is missing.
func saveDocument(r *http.Request, field, farmerID string) string {
	url, err := filemgr.SaveFormFile(r, field, filemgr.EntityVerification, filemgr.FileDocument, farmerID)
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) {
			log.Printf("saving %s failed: %v", field, err)
		}
		return ""
	}
	return url
}

func respondVerificationError(w http.ResponseWriter, err error) {
	var mErr *MissingDocumentError
	switch {
	case errors.As(err, &mErr):
		utils.RespondWithError(w, http.StatusBadRequest, mErr.Error())
	case errors.Is(err, ErrFarmerNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Farmer not found")
	default:
		log.Println("verification operation failed:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Verification operation failed")
	}
}
