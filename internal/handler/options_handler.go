package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ridwanfathin/receipt-tracker/internal/domain"
	"github.com/ridwanfathin/receipt-tracker/internal/model"
	"github.com/ridwanfathin/receipt-tracker/internal/options"
)

// OptionsHandler serves the reference lists used to fill the form's pickers
type OptionsHandler struct {
	loader *options.Loader
	logger logrus.FieldLogger
}

// NewOptionsHandler creates a new options handler
func NewOptionsHandler(loader *options.Loader, logger logrus.FieldLogger) *OptionsHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &OptionsHandler{loader: loader, logger: logger}
}

// GetOptions handles the GET /v1/options endpoint
// @Summary List every option list
// @Description Load projects, categories, vendors, locations and work items. A list that fails to load is returned empty and named in errors.
// @Tags options
// @Produce json
// @Success 200 {object} model.OptionsResponse "Option lists"
// @Router /v1/options [get]
func (h *OptionsHandler) GetOptions(c *gin.Context) {
	result := h.loader.Load(c.Request.Context())

	resp := model.OptionsResponse{
		Lists: make(map[string][]string, len(domain.OptionLists)),
	}
	for _, list := range domain.OptionLists {
		resp.Lists[string(list)] = result.Lists.Get(list)
	}
	if result.Failed() {
		resp.Errors = make(map[string]string, len(result.Errors))
		for list, err := range result.Errors {
			resp.Errors[string(list)] = err.Error()
		}
	}

	c.JSON(http.StatusOK, resp)
}

// GetOptionList handles the GET /v1/options/{list} endpoint
// @Summary Get one option list
// @Tags options
// @Produce json
// @Param list path string true "List name" Enums(projects, categories, vendors, locations, workItems)
// @Success 200 {object} model.OptionListResponse "Option list"
// @Failure 404 {object} model.ErrorResponse "Unknown list"
// @Failure 502 {object} model.ErrorResponse "List could not be loaded"
// @Router /v1/options/{list} [get]
func (h *OptionsHandler) GetOptionList(c *gin.Context) {
	list, err := domain.ParseOptionList(c.Param("list"))
	if err != nil {
		respondNotFound(c, ErrUnknownList)
		return
	}

	values, err := h.loader.LoadList(c.Request.Context(), list)
	if err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"list":  list,
			"sheet": list.Sheet(),
		}).Error("option list fetch failed")
		respondWithError(c, http.StatusBadGateway, ErrListUnavailable, newErrorDetail(string(list), err.Error()))
		return
	}

	c.JSON(http.StatusOK, model.OptionListResponse{
		List:   string(list),
		Sheet:  list.Sheet(),
		Values: values,
	})
}
