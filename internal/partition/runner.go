package partition

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"

	"hdzero/internal/logging"
)

// Runner executes an external utility and returns its combined output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner запускает команды через os/exec
type ExecRunner struct {
	Logger *logging.EnterpriseLogger
}

func (r ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	r.Logger.Log("DEBUG", "Выполнение команды", "command", name, "args", strings.Join(args, " "))
	err := cmd.Run()
	output := buf.String()
	if err != nil {
		r.Logger.Log("WARN", "Команда завершилась с ошибкой", "command", name, "error", err.Error())
		return output, errors.Wrapf(err, "%s %s", name, strings.Join(args, " "))
	}
	return output, nil
}
