// Package metrics records listing, change stream and player activity.
//
// Components take a Recorder and default to NoopRecorder through OrNoop, so
// call sites never check for nil:
//
//	h := handlers.NewPhotoHandlers(src, metrics.OrNoop(nil))
//
// PrometheusRecorder registers the birthday_* collectors on a registry;
// HTTPHandler exposes that registry. The serve command mounts it on the admin
// port when monitoring.metrics.enabled is set, and the play command serves it
// on --metrics-addr.
package metrics
