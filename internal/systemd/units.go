// Package systemd получает список упавших юнитов через systemctl.
package systemd

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// RuntimeDir существует, только если init системой работает systemd.
const RuntimeDir = "/run/systemd/system"

// Runner запускает systemctl и возвращает его stdout.
type Runner func(ctx context.Context, args ...string) ([]byte, error)

// Client запрашивает упавшие юниты у системного менеджера и, опционально,
// у пользовательского.
type Client struct {
	run    Runner
	user   bool
	logger *zap.Logger
}

// NewClient создает новый клиент systemctl. При nil run запускается настоящий бинарник.
func NewClient(run Runner, user bool, logger *zap.Logger) *Client {
	if run == nil {
		run = execSystemctl
	}
	return &Client{
		run:    run,
		user:   user,
		logger: logger,
	}
}

// Available сообщает, загружен ли хост с systemd.
func Available() bool {
	info, err := os.Stat(RuntimeDir)
	return err == nil && info.IsDir()
}

// FailedUnits возвращает имена упавших юнитов, сначала системные.
// Ошибка пользовательского прохода логируется и пропускается.
func (c *Client) FailedUnits(ctx context.Context) ([]string, error) {
	out, err := c.run(ctx, "--no-legend", "--plain", "--failed")
	if err != nil {
		return nil, fmt.Errorf("failed to list failed units: %w", err)
	}
	units := ParseFailed(out)

	if c.user {
		out, err := c.run(ctx, "--user", "--no-legend", "--plain", "--failed")
		if err != nil {
			c.logger.Debug("Failed to list failed user units", zap.Error(err))
		} else {
			units = append(units, ParseFailed(out)...)
		}
	}

	return units, nil
}

// ParseFailed извлекает имя юнита (первую колонку) из каждой строки.
func ParseFailed(out []byte) []string {
	var units []string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		name := fields[0]
		// Старые версии systemctl ставят маркер перед упавшими юнитами даже в plain режиме
		if name == "●" || name == "*" {
			if len(fields) < 2 {
				continue
			}
			name = fields[1]
		}
		units = append(units, name)
	}
	return units
}

func execSystemctl(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "systemctl", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return out, nil
}
