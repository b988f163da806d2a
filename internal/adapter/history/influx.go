package history

import (
	"context"
	"fmt"

	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/config"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/entity"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/service"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

const influxMeasurement = "rct_power"

// InfluxSink writes entity snapshots to an InfluxDB v2 bucket, one point
// per available entity. Retention is left to the bucket's own policy.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
}

func NewInfluxSink(cfg config.InfluxConfig) *InfluxSink {
	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
	}
}

func (s *InfluxSink) Name() string {
	return "influx"
}

func (s *InfluxSink) Record(ctx context.Context, snapshots []entity.Snapshot) error {
	points := make([]*write.Point, 0, len(snapshots))
	for i := range snapshots {
		if point := snapshotToPoint(&snapshots[i]); point != nil {
			points = append(points, point)
		}
	}
	if len(points) == 0 {
		return nil
	}
	if err := s.writeAPI.WritePoint(ctx, points...); err != nil {
		return fmt.Errorf("influx write: %w", err)
	}
	return nil
}

// snapshotToPoint renders one snapshot as a line protocol point. Numeric
// states land in the "value" field, textual states in "state". Entities
// with no resolvable state produce no point.
func snapshotToPoint(snapshot *entity.Snapshot) *write.Point {
	if !snapshot.Available || snapshot.State == nil {
		return nil
	}
	fields := map[string]any{}
	if value, ok := service.StateAsFloat(snapshot.State); ok {
		fields["value"] = value
	} else {
		fields["state"] = service.RenderStateText(snapshot.State)
	}
	tags := map[string]string{
		"entity": snapshot.Key,
	}
	if snapshot.DeviceClass != "" {
		tags["device_class"] = snapshot.DeviceClass
	}
	if snapshot.Unit != "" {
		tags["unit"] = snapshot.Unit
	}
	return write.NewPoint(influxMeasurement, tags, fields, snapshot.TakenAt)
}

func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}
