package reconcile

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/minio/minio-go/v7"
)

// StatusResult is the sync state of one asset across catalog, disk and bucket.
type StatusResult struct {
	ID            uint64   `json:"id"`
	Key           string   `json:"key"`
	Offloaded     bool     `json:"offloaded"`
	LocalPresent  bool     `json:"local_present"`
	RemotePresent bool     `json:"remote_present"`
	Drift         []string `json:"drift"`
}

// StatusSummary provides aggregate counts for a status report.
type StatusSummary struct {
	Total     int `json:"total"`
	Offloaded int `json:"offloaded"`
	LocalOnly int `json:"local_only"`
	// MissingRemote counts offloaded assets whose primary object is gone.
	MissingRemote int `json:"missing_remote"`
	// MissingLocal counts local-only assets whose primary file is gone.
	MissingLocal int `json:"missing_local"`
	// Unrecorded counts local-only assets that already have a remote copy.
	Unrecorded int `json:"unrecorded"`
	// Orphaned counts bucket keys no asset file maps to.
	Orphaned int `json:"orphaned"`
}

// StatusReport is the drift report across every asset.
type StatusReport struct {
	Results []StatusResult `json:"results"`
	Orphans []string       `json:"orphans"`
	Summary StatusSummary  `json:"summary"`
}

// Status compares catalog, local files and bucket contents. The catalog
// listing and the bucket listing are loaded concurrently; the bucket
// listing is a single pass, reused until the cache TTL expires or a
// transition writes to the bucket.
func (r *Reconciler) Status(ctx context.Context) (*StatusReport, error) {
	var (
		assets     []Asset
		remoteKeys map[string]struct{}
		assetErr   error
		remoteErr  error
		wg         sync.WaitGroup
	)

	wg.Add(2)

	go func() {
		defer wg.Done()
		assets, assetErr = r.catalog.ListAssets(ctx, FilterAll)
	}()

	go func() {
		defer wg.Done()
		remoteKeys, remoteErr = r.remote.get(ctx, r.loadRemoteKeys)
	}()

	wg.Wait()

	if assetErr != nil {
		return nil, assetErr
	}
	if remoteErr != nil {
		return nil, remoteErr
	}

	report := &StatusReport{Results: make([]StatusResult, 0, len(assets)), Orphans: []string{}}
	known := make(map[string]struct{}, len(remoteKeys))

	for _, asset := range assets {
		if asset.PrimaryPath == "" {
			continue
		}
		for _, f := range r.files(asset, false) {
			known[f.key] = struct{}{}
		}

		key := RemoteKey(r.cfg.UploadDir, asset.PrimaryPath)
		_, remote := remoteKeys[key]
		res := StatusResult{
			ID:            asset.ID,
			Key:           key,
			Offloaded:     asset.Offloaded(),
			LocalPresent:  fileExists(asset.PrimaryPath),
			RemotePresent: remote,
			Drift:         []string{},
		}

		s := &report.Summary
		s.Total++
		if res.Offloaded {
			s.Offloaded++
			if !res.RemotePresent {
				s.MissingRemote++
				res.Drift = append(res.Drift, "remote object missing")
			}
			if expected := r.resolver.RemoteURL(key); asset.OffloadURL != expected {
				res.Drift = append(res.Drift, fmt.Sprintf("offload url %q differs from %q", asset.OffloadURL, expected))
			}
		} else {
			s.LocalOnly++
			if !res.LocalPresent {
				s.MissingLocal++
				res.Drift = append(res.Drift, "local file missing")
			}
			if res.RemotePresent {
				s.Unrecorded++
				res.Drift = append(res.Drift, "remote copy not recorded")
			}
		}

		report.Results = append(report.Results, res)
	}

	for key := range remoteKeys {
		if _, ok := known[key]; !ok {
			report.Orphans = append(report.Orphans, key)
		}
	}
	sort.Strings(report.Orphans)
	report.Summary.Orphaned = len(report.Orphans)

	return report, nil
}

// loadRemoteKeys lists every object key in the bucket.
func (r *Reconciler) loadRemoteKeys(ctx context.Context) (map[string]struct{}, error) {
	keys := make(map[string]struct{})
	for obj := range r.client.ListObjects(ctx, r.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list bucket %s: %w", r.bucket, obj.Err)
		}
		keys[obj.Key] = struct{}{}
	}
	return keys, nil
}
