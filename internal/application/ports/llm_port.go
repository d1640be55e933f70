package ports

import "context"

// BlogPrompt datos de la visita que se le pasan al modelo para redactar el post.
type BlogPrompt struct {
	CompanyName    string
	Industry       string
	JobType        string
	Notes          string
	Location       string
	TechnicianName string
}

// BlogDraft título y cuerpo (HTML simple) devueltos por el modelo.
type BlogDraft struct {
	Title   string
	Content string
}

// BlogGenerator define el puerto de salida hacia el modelo de lenguaje.
// Cualquier adaptador (Anthropic, plantilla local, mock) debe implementar esta interfaz.
// El contexto debe llevar un timeout para evitar bloqueos en llamadas externas.
type BlogGenerator interface {
	GenerateBlogPost(ctx context.Context, p BlogPrompt) (*BlogDraft, error)
}
