package types

// Language 代码挑战支持的语言
type Language string

const (
	LanguageJavaScript Language = "javascript"
	LanguagePython     Language = "python"
)
