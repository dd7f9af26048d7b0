package dto

import "math"

// ErrorResponse cuerpo de error HTTP. Success siempre es false (contrato AJAX).
type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FormErrorResponse errores de formulario por campo (respuestas AJAX).
type FormErrorResponse struct {
	Success bool                `json:"success"`
	Errors  map[string][]string `json:"errors"`
}

// MessageResponse respuesta genérica de operaciones AJAX.
type MessageResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

// PageMeta metadatos de paginación por número de página (1-based).
type PageMeta struct {
	Page       int  `json:"current_page"`
	PerPage    int  `json:"per_page"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasPrev    bool `json:"has_prev"`
	HasNext    bool `json:"has_next"`
}

// TotalPages número de páginas para total elementos (0 si no hay elementos).
func TotalPages(total, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

// ClampPage ajusta la página pedida a [1, totalPages]; con cero resultados devuelve 1.
func ClampPage(requested, total, perPage int) int {
	pages := TotalPages(total, perPage)
	if requested > pages {
		requested = pages
	}
	if requested < 1 {
		requested = 1
	}
	return requested
}

// NewPageMeta construye los metadatos de una página ya ajustada.
func NewPageMeta(page, perPage, total int) PageMeta {
	pages := TotalPages(total, perPage)
	return PageMeta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: pages,
		HasPrev:    page > 1,
		HasNext:    page < pages,
	}
}

// Offset desplazamiento SQL de una página 1-based. Satura en math.MaxInt en lugar de desbordar,
// de modo que una página enorme queda fuera de rango y se ajusta a la última.
func Offset(page, perPage int) int {
	if page < 1 || perPage <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/perPage {
		return math.MaxInt
	}
	return (page - 1) * perPage
}
