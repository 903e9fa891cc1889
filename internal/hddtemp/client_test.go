package hddtemp_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"motd/internal/hddtemp"
	"motd/internal/metric"
	"motd/internal/sensors"
)

// serve отвечает payload на каждое соединение временного слушателя.
func serve(t *testing.T, payload string) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Write([]byte(payload))
			conn.Close()
		}
	}()
	return ln.Addr().String()
}

func TestParse(t *testing.T) {
	records, err := hddtemp.Parse([]byte("|/dev/sda|WDC WD40EFRX|38|C||/dev/sdb|ST2000DM001|SLP|*|"))
	require.NoError(t, err)
	assert.Equal(t, []hddtemp.Record{
		{Device: "/dev/sda", Model: "WDC WD40EFRX", Temp: "38", Unit: "C"},
		{Device: "/dev/sdb", Model: "ST2000DM001", Temp: "SLP", Unit: "*"},
	}, records)
}

func TestParseEmptyAndMalformed(t *testing.T) {
	records, err := hddtemp.Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, records)

	_, err = hddtemp.Parse([]byte("garbage"))
	assert.Error(t, err)
}

func TestToCelsius(t *testing.T) {
	c, err := hddtemp.ToCelsius("104", "F")
	require.NoError(t, err)
	assert.InDelta(t, 40, c, 0.001)

	c, err = hddtemp.ToCelsius("41", "C")
	require.NoError(t, err)
	assert.Equal(t, 41.0, c)

	_, err = hddtemp.ToCelsius("UNK", "*")
	assert.ErrorIs(t, err, hddtemp.ErrNoTemperature)
}

func TestClientSensorsAndRead(t *testing.T) {
	addr := serve(t, "|/dev/sda|WDC WD40EFRX|38|C||/dev/sdb|ST2000DM001|SLP|*|")
	client := hddtemp.NewClient(addr, time.Second, zap.NewNop())

	list, err := client.Sensors(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "/dev/sda (WDC WD40EFRX)", list[0].Label)
	assert.Equal(t, metric.SensorDrive, list[0].Kind)

	v, err := client.Read(context.Background(), list[0])
	require.NoError(t, err)
	assert.Equal(t, sensors.Value{Celsius: 38}, v)

	_, err = client.Read(context.Background(), list[1])
	assert.ErrorIs(t, err, hddtemp.ErrNoTemperature)
}

func TestClientDaemonDown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	client := hddtemp.NewClient(addr, 200*time.Millisecond, zap.NewNop())
	_, err = client.Sensors(context.Background())
	assert.Error(t, err)
}
