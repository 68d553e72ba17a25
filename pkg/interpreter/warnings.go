package interpreter

import (
	"fmt"
	"log/slog"
)

type WarningKind string

const (
	WarningRedeclaration WarningKind = "redeclaration"
)

// Warning is a non-fatal condition reported during evaluation.
type Warning struct {
	Kind    WarningKind
	Name    string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("warning: %s", w.Message)
}

// warnRedeclaration records a rebinding of a name in the scope that already
// held it. Evaluation continues with the new binding.
func (i *Interpreter) warnRedeclaration(name string) {
	if i.silent {
		return
	}
	w := Warning{
		Kind:    WarningRedeclaration,
		Name:    name,
		Message: fmt.Sprintf("'%s' redeclared in the same scope", name),
	}
	i.warnings = append(i.warnings, w)
	i.logger.WarnContext(i.ctx, w.Message, slog.String("kind", string(w.Kind)), slog.String("name", name))
}
