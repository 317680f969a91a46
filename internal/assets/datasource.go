// Package assets opens the icon atlas and icon mapping files the
// icon layer needs, from a local directory or a MinIO bucket.
package assets

import (
	"bytes"
	"context"
	"io"
	"io/ioutil"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/spectriclabs/sigmap-service/internal/cache"
	"github.com/spectriclabs/sigmap-service/internal/config"
)

// Location types.
const (
	LocalFile = "localFile"
	Minio     = "minio"
)

// ErrNotFound is returned when an asset does not exist.
var ErrNotFound = errors.New("asset not found")

type DataSource struct {
	Cfg    *config.Config
	Cache  *cache.Cache
	Logger *zap.Logger
}

// Open returns a reader over the file `name` at the configured
// location `locationName`. MinIO objects are downloaded once and
// served from the local cache afterwards when caching is enabled.
func (d *DataSource) Open(ctx context.Context, locationName string, name string) (io.ReadSeeker, error) {
	loc, ok := d.Cfg.FindLocation(locationName)
	if !ok {
		return nil, errors.Errorf("couldn't find location %s", locationName)
	}
	name = path.Clean("/" + name)

	switch loc.LocationType {
	case LocalFile:
		fullFilepath := filepath.Join(loc.Path, filepath.FromSlash(name))
		d.Logger.Debug(
			"Reading local file",
			zap.String("location_name", locationName),
			zap.String("path", fullFilepath),
		)
		file, err := os.Open(fullFilepath)
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNotFound, "%s in %s", name, locationName)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "opening %s", fullFilepath)
		}
		return file, nil
	case Minio:
		return d.openMinio(ctx, loc, name)
	default:
		return nil, errors.Errorf("unsupported location type %s in %s", loc.LocationType, loc.LocationName)
	}
}

func (d *DataSource) openMinio(ctx context.Context, loc config.Location, name string) (io.ReadSeeker, error) {
	objectName := strings.TrimPrefix(path.Join(loc.Path, name), "/")
	cacheFileName := cache.UrlToCacheFileName(loc.MinioBucket + "/" + objectName)

	if d.Cfg.UseCache {
		if file, err := d.Cache.GetItemFromCache(cacheFileName, cache.MinioDir); err == nil {
			return file, nil
		}
	}

	start := time.Now()
	minioClient, err := minio.New(loc.Location, &minio.Options{
		Creds:  credentials.NewStaticV4(loc.MinioAccessKey, loc.MinioSecretKey, ""),
		Secure: loc.MinioSecure,
	})
	if err != nil {
		return nil, errors.Wrap(err, "establishing connection to minio")
	}

	object, err := minioClient.GetObject(ctx, loc.MinioBucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "getting %s from bucket %s", objectName, loc.MinioBucket)
	}
	defer object.Close()

	fileData, err := ioutil.ReadAll(object)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, errors.Wrapf(ErrNotFound, "%s in bucket %s", objectName, loc.MinioBucket)
		}
		return nil, errors.Wrapf(err, "reading %s from bucket %s", objectName, loc.MinioBucket)
	}
	d.Logger.Info(
		"Fetched object from minio",
		zap.String("bucket", loc.MinioBucket),
		zap.String("object", objectName),
		zap.Int("bytes", len(fileData)),
		zap.Duration("elapsed", time.Since(start)),
	)

	if d.Cfg.UseCache {
		if err := d.Cache.PutItemInCache(cacheFileName, cache.MinioDir, fileData); err != nil {
			d.Logger.Warn("Error caching minio object", zap.Error(err))
		}
	}
	return bytes.NewReader(fileData), nil
}
