package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brightclass/academy-backend/internal/repos"
)

// StudentHandler serves the read views reporting and profile screens use.
// The issuance pipeline guarantees the invariants of these rows; this handler
// only presents them.
type StudentHandler struct {
	certRepo repos.CertificateRepo
	xpRepo   repos.XPRepo
}

func NewStudentHandler(certRepo repos.CertificateRepo, xpRepo repos.XPRepo) *StudentHandler {
	return &StudentHandler{certRepo: certRepo, xpRepo: xpRepo}
}

// GET /api/students/:id/certificates
func (h *StudentHandler) ListCertificates(c *gin.Context) {
	studentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid student id"})
		return
	}

	certs, err := h.certRepo.ListByStudent(c.Request.Context(), nil, studentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load certificates"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"certificates": certs})
}

// GET /api/students/:id/xp
func (h *StudentHandler) ListXP(c *gin.Context) {
	studentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid student id"})
		return
	}

	transactions, err := h.xpRepo.ListByStudent(c.Request.Context(), nil, studentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load xp transactions"})
		return
	}

	total := 0
	for _, tx := range transactions {
		total += tx.Points
	}
	c.JSON(http.StatusOK, gin.H{"total": total, "transactions": transactions})
}
