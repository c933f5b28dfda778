package handlers

import (
	"embed"
	"hash/fnv"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	appmol "github.com/turtacn/MolViz/internal/application/molecule"
	domainMol "github.com/turtacn/MolViz/internal/domain/molecule"
	"github.com/turtacn/MolViz/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolViz/internal/interfaces/http/middleware"
	"github.com/turtacn/MolViz/pkg/errors"
	mtypes "github.com/turtacn/MolViz/pkg/types/molecule"
)

//go:embed templates/index.html
var templateFS embed.FS

// DownloadFilename is the attachment name of the coordinate download.
const DownloadFilename = "molecule.xyz"

// PageConfig sizes the rendered page.
type PageConfig struct {
	ImageWidth  int
	ImageHeight int
}

// PageHandler serves the interactive HTML page and its two session assets.
type PageHandler struct {
	service appmol.Service
	logger  logging.Logger
	tmpl    *template.Template
	cfg     PageConfig
}

// NewPageHandler parses the embedded page template.
func NewPageHandler(service appmol.Service, logger logging.Logger, cfg PageConfig) (*PageHandler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to parse page template")
	}
	if cfg.ImageWidth <= 0 {
		cfg.ImageWidth = 300
	}
	if cfg.ImageHeight <= 0 {
		cfg.ImageHeight = 300
	}
	return &PageHandler{service: service, logger: logger, tmpl: tmpl, cfg: cfg}, nil
}

// RegisterRoutes mounts the page routes. visualize wraps POST /visualize.
func (h *PageHandler) RegisterRoutes(r gin.IRoutes, visualize ...gin.HandlerFunc) {
	r.GET("/", h.Index)
	r.POST("/visualize", chain(visualize, h.Submit)...)
	r.GET("/structure.png", h.Structure)
	r.GET("/"+DownloadFilename, h.Download)
}

type styleOption struct {
	Value   string
	Label   string
	Checked bool
}

type pageData struct {
	Input       string
	Error       string
	Styles      []styleOption
	View        *mtypes.MoleculeView
	ViewerSpec  template.JS
	Revision    string
	ImageWidth  int
	ImageHeight int
}

// Index renders the page for the current session.
func (h *PageHandler) Index(c *gin.Context) {
	h.renderPage(c, http.StatusOK, "", "", c.Query("style"))
}

// Submit is the Visualize action. Invalid input shows the error banner and
// leaves whatever the session held on screen.
func (h *PageHandler) Submit(c *gin.Context) {
	input := c.PostForm("smiles")
	style := c.PostForm("style")

	_, err := h.service.Visualize(c.Request.Context(), middleware.GetSessionID(c), input)
	if err == nil {
		h.renderPage(c, http.StatusOK, input, "", style)
		return
	}

	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)
	msg := errors.DefaultMessageForCode(errors.CodeInternal)
	var appErr *errors.AppError
	if errors.IsClientError(code) && errors.As(err, &appErr) {
		msg = appErr.Message
	} else {
		h.logger.Error("visualize failed", logging.Err(err), logging.String("request_id", middleware.GetRequestID(c)))
	}
	h.renderPage(c, status, input, msg, style)
}

func (h *PageHandler) renderPage(c *gin.Context, status int, input, errMsg, style string) {
	ctx := c.Request.Context()
	data := pageData{
		Input:       input,
		Error:       errMsg,
		ImageWidth:  h.cfg.ImageWidth,
		ImageHeight: h.cfg.ImageHeight,
	}

	rc, err := h.service.LoadContext(ctx, middleware.GetSessionID(c), style)
	if err != nil {
		h.logger.Error("failed to load session", logging.Err(err))
		status = errors.HTTPStatusForCode(errors.GetCode(err))
		data.Error = errors.DefaultMessageForCode(errors.CodeSessionStore)
		data.Styles = styleOptions(domainMol.DefaultStyle)
		h.execute(c, status, data)
		return
	}
	data.Styles = styleOptions(domainMol.Style(rc.Style))
	if data.Input == "" {
		data.Input = rc.State.SMILES
	}

	if rc.Loaded() {
		view, err := h.service.Render(ctx, rc)
		if err != nil {
			h.logger.Error("failed to render session molecule", logging.Err(err))
			if status == http.StatusOK {
				status = errors.HTTPStatusForCode(errors.GetCode(err))
			}
			if data.Error == "" {
				data.Error = errors.DefaultMessageForCode(errors.GetCode(err))
			}
		} else {
			data.View = view
			data.ViewerSpec = template.JS(view.Viewer.Spec)
			data.Revision = revision(view.SMILES, view.XYZ)
		}
	}
	h.execute(c, status, data)
}

func (h *PageHandler) execute(c *gin.Context, status int, data pageData) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := h.tmpl.Execute(c.Writer, data); err != nil {
		h.logger.Error("failed to execute page template", logging.Err(err))
	}
}

// Structure serves the 2D depiction of the session molecule.
func (h *PageHandler) Structure(c *gin.Context) {
	png, err := h.service.StructurePNG(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		h.plainError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

// Download serves the stored coordinate text verbatim as an attachment.
func (h *PageHandler) Download(c *gin.Context) {
	xyz, err := h.service.Download(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		h.plainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+DownloadFilename+`"`)
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/plain", []byte(xyz))
}

func (h *PageHandler) plainError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)
	if status >= http.StatusInternalServerError {
		h.logger.Error("session asset failed", logging.Err(err), logging.String("path", c.Request.URL.Path))
	}
	_ = c.Error(err)
	c.String(status, errors.DefaultMessageForCode(code))
}

func styleOptions(selected domainMol.Style) []styleOption {
	opts := make([]styleOption, 0, len(domainMol.Styles))
	for _, s := range domainMol.Styles {
		opts = append(opts, styleOption{Value: string(s), Label: s.Label(), Checked: s == selected})
	}
	return opts
}

// revision changes whenever the session molecule does so the browser
// refetches the structure image.
func revision(smiles, xyz string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(smiles))
	_, _ = h.Write([]byte(xyz))
	return strconv.FormatUint(h.Sum64(), 36)
}

//Personal.AI order the ending
