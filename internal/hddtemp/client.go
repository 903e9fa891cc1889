// Package hddtemp читает температуры дисков у запущенного демона hddtemp.
package hddtemp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"motd/internal/metric"
	"motd/internal/sensors"
)

const (
	// DefaultAddr это адрес hddtemp в режиме демона
	DefaultAddr    = "127.0.0.1:7634"
	DefaultTimeout = 500 * time.Millisecond

	fieldsPerRecord = 5
	maxResponseSize = 64 * 1024
)

// ErrNoTemperature возвращается для дисков, которые демон не смог прочитать (SLP, UNK, NA).
var ErrNoTemperature = errors.New("drive temperature unavailable")

// Record это один диск в ответе демона.
type Record struct {
	Device string
	Model  string
	Temp   string
	Unit   string
}

// Client работает с демоном hddtemp. Демон отвечает на каждое соединение
// полным списком дисков и закрывает его, поэтому Sensors читает один раз,
// а Read только преобразует прочитанное.
type Client struct {
	addr    string
	timeout time.Duration
	logger  *zap.Logger
}

// NewClient создает новый клиент hddtemp
func NewClient(addr string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		addr:    addr,
		timeout: timeout,
		logger:  logger,
	}
}

// Name идентифицирует источник в логах.
func (c *Client) Name() string { return "hddtemp" }

// Sensors возвращает диски, известные демону. Недоступность демона
// считается ошибкой перечисления.
func (c *Client) Sensors(ctx context.Context) ([]sensors.Sensor, error) {
	raw, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	records, err := Parse(raw)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Fetched hddtemp records",
		zap.String("addr", c.addr),
		zap.Int("drives", len(records)))

	list := make([]sensors.Sensor, 0, len(records))
	for _, r := range records {
		list = append(list, sensors.Sensor{
			Label:  fmt.Sprintf("%s (%s)", resolveDevice(r.Device), r.Model),
			Kind:   metric.SensorDrive,
			Source: c.Name(),
			Ref:    r.Temp + "|" + r.Unit,
		})
	}
	return list, nil
}

// Read преобразует температуру, полученную при перечислении.
func (c *Client) Read(_ context.Context, s sensors.Sensor) (sensors.Value, error) {
	temp, unit, _ := strings.Cut(s.Ref, "|")
	celsius, err := ToCelsius(temp, unit)
	if err != nil {
		return sensors.Value{}, fmt.Errorf("%s: %w", s.Label, err)
	}
	if celsius <= 0 {
		return sensors.Value{}, fmt.Errorf("%s: %w: %v", s.Label, sensors.ErrInvalidReading, celsius)
	}
	return sensors.Value{Celsius: celsius}, nil
}

// fetch подключается к демону и читает все, пока тот не закроет соединение
func (c *Client) fetch(ctx context.Context) ([]byte, error) {
	dialer := &net.Dialer{
		Timeout: c.timeout,
	}

	conn, err := dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to hddtemp daemon: %w", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return nil, fmt.Errorf("failed to set connection deadline: %w", err)
	}

	data, err := io.ReadAll(io.LimitReader(conn, maxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read hddtemp response: %w", err)
	}
	if len(data) > maxResponseSize {
		return nil, fmt.Errorf("hddtemp response too large: more than %d bytes", maxResponseSize)
	}
	return data, nil
}

// Parse разбирает ответ демона вида |dev|model|temp|unit||dev|...
func Parse(raw []byte) ([]Record, error) {
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return nil, nil
	}
	if !strings.HasPrefix(text, "|") {
		return nil, fmt.Errorf("malformed hddtemp response: %q", text)
	}

	// Каждая запись обрамлена разделителями, поэтому занимает
	// fieldsPerRecord полей, а после последней остается пустой хвост
	fields := strings.Split(text, "|")
	var records []Record
	for i := 0; i+fieldsPerRecord <= len(fields); i += fieldsPerRecord {
		chunk := fields[i : i+fieldsPerRecord]
		if chunk[1] == "" {
			continue
		}
		records = append(records, Record{
			Device: chunk[1],
			Model:  strings.TrimSpace(chunk[2]),
			Temp:   chunk[3],
			Unit:   chunk[4],
		})
	}
	return records, nil
}

// ToCelsius преобразует поле температуры демона. Диски в standby или
// неизвестные hddtemp сообщают слово вместо числа.
func ToCelsius(temp, unit string) (float64, error) {
	value, err := strconv.ParseFloat(temp, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNoTemperature, temp)
	}
	switch unit {
	case "F":
		return (value - 32) * 5 / 9, nil
	case "C", "":
		return value, nil
	default:
		return 0, fmt.Errorf("%w: unit %q", ErrNoTemperature, unit)
	}
}

// resolveDevice превращает пути вида /dev/disk/by-id/... в /dev/sdX.
func resolveDevice(device string) string {
	resolved, err := filepath.EvalSymlinks(device)
	if err != nil {
		return device
	}
	return resolved
}
