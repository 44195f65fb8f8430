/*
Copyright © 2022 the l1b authors.
This file is part of l1b.

l1b is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

l1b is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with l1b.  If not, see <http://www.gnu.org/licenses/>.
*/

package l1butil

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/cenkalti/backoff"
	"github.com/google/go-cloud/blob"
	"github.com/google/go-cloud/blob/fileblob"
	"github.com/google/go-cloud/blob/gcsblob"
	"github.com/google/go-cloud/blob/s3blob"
	"github.com/google/go-cloud/gcp"
	"github.com/sirupsen/logrus"
)

// downloadBackOff returns the retry policy for HTTP downloads.
var downloadBackOff = func() backoff.BackOff {
	return backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 4)
}

// maybeDownload checks if the input is an existing file locally.
// If not, it checks if the file is a URL or a blob.
// If it is, it downloads the file and
// returns the path to the downloaded file.
func maybeDownload(ctx context.Context, path string, log logrus.FieldLogger) (string, error) {
	// Check if local file exists. If it does, return the given path.
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return path, nil
	}

	// If the path starts with one of these prefixes, download the file and
	// return the location it was downloaded to.
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return downloadHTTP(ctx, path, log)
	}

	if IsBlob(path) {
		return downloadBlob(ctx, path, log)
	}

	return path, nil
}

// tempFile creates a file named after path in a new temporary directory.
func tempFile(path string) (*os.File, error) {
	dir, err := ioutil.TempDir("", "l1b")
	if err != nil {
		return nil, fmt.Errorf("l1butil: failed creating temporary download directory: %v", err)
	}
	w, err := os.Create(filepath.Join(dir, filepath.Base(path)))
	if err != nil {
		return nil, fmt.Errorf("l1butil: failed creating file for download: %v", err)
	}
	return w, nil
}

// downloadHTTP downloads a file from the specified URL and returns
// the path to the downloaded file. Network errors and server errors
// are retried.
func downloadHTTP(ctx context.Context, path string, log logrus.FieldLogger) (string, error) {
	u, err := url.Parse(path)
	if err != nil {
		return path, fmt.Errorf("l1butil: invalid URL: %v", err)
	}
	w, err := tempFile(u.Path)
	if err != nil {
		return path, err
	}
	defer w.Close()

	var giveUp error // an error that retrying won't fix
	op := func() error {
		req, err := http.NewRequest(http.MethodGet, path, nil)
		if err != nil {
			giveUp = err
			return nil
		}
		resp, err := http.DefaultClient.Do(req.WithContext(ctx))
		if err != nil {
			if ctx.Err() != nil {
				giveUp = ctx.Err()
				return nil
			}
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 500 {
			return fmt.Errorf("l1butil: downloading %s: %s", path, resp.Status)
		}
		if resp.StatusCode != http.StatusOK {
			giveUp = fmt.Errorf("l1butil: downloading %s: %s", path, resp.Status)
			return nil
		}
		if err := w.Truncate(0); err != nil {
			giveUp = err
			return nil
		}
		if _, err := w.Seek(0, io.SeekStart); err != nil {
			giveUp = err
			return nil
		}
		_, err = io.Copy(w, resp.Body)
		return err
	}
	err = backoff.RetryNotify(op, downloadBackOff(), func(err error, d time.Duration) {
		log.WithError(err).Warnf("l1butil: retrying download in %v", d)
	})
	if err == nil {
		err = giveUp
	}
	if err != nil {
		os.Remove(w.Name())
		return path, err
	}
	log.WithFields(logrus.Fields{
		"url":  path,
		"file": w.Name(),
	}).Info("l1butil: downloaded input file")
	return w.Name(), nil
}

// IsBlob returns whether the given filename represents a blob.
// (i.e., if it starts with `gs://`, 's3://', or 'file://').
func IsBlob(path string) bool {
	return strings.HasPrefix(path, "gs://") || strings.HasPrefix(path, "s3://") || strings.HasPrefix(path, "file://")
}

// OpenBucket returns the blob storage bucket specified by bucketName,
// where bucketName must be in the format 'provider://name' where provider
// is the name of the storage provider and name is the name of the bucket.
// The currently accepted storage providers are "file" for the local filesystem
// (e.g., for testing), "gs" for Google Cloud Storage, and "s3" for AWS S3.
func OpenBucket(ctx context.Context, bucketName string) (*blob.Bucket, error) {
	url, err := url.Parse(bucketName)
	if err != nil {
		return nil, fmt.Errorf("l1butil.OpenBucket: %v", err)
	}
	switch url.Scheme {
	case "file":
		return fileblob.NewBucket(url.Hostname())
	case "gs":
		return gsBucket(ctx, url.Hostname())
	case "s3":
		return s3Bucket(ctx, url.Hostname())
	default:
		return nil, fmt.Errorf("l1butil.OpenBucket: invalid provider %s", url.Scheme)
	}
}

func gsBucket(ctx context.Context, name string) (*blob.Bucket, error) {
	creds, err := gcp.DefaultCredentials(ctx)
	if err != nil {
		return nil, err
	}
	c, err := gcp.NewHTTPClient(gcp.DefaultTransport(), gcp.CredentialsTokenSource(creds))
	if err != nil {
		return nil, err
	}
	return gcsblob.OpenBucket(ctx, name, c)
}

// s3Bucket opens an s3 storage bucket. It assumes the following
// environment variables are set: AWS_REGION, AWS_ACCESS_KEY_ID, and
// AWS_SECRET_ACCESS_KEY. MODIS data on AWS are stored in us-west-2.
func s3Bucket(ctx context.Context, name string) (*blob.Bucket, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-west-2"
	}
	c := &aws.Config{
		Region:      aws.String(region),
		Credentials: credentials.NewEnvCredentials(),
	}
	s, err := session.NewSession(c)
	if err != nil {
		return nil, err
	}
	return s3blob.OpenBucket(ctx, s, name)
}

// downloadBlob downloads the specified file from blob storage.
func downloadBlob(ctx context.Context, path string, log logrus.FieldLogger) (string, error) {
	url, err := url.Parse(path)
	if err != nil {
		return path, err
	}
	bucket, err := OpenBucket(ctx, url.Scheme+"://"+url.Host)
	if err != nil {
		return path, err
	}
	w, err := tempFile(url.Path)
	if err != nil {
		return path, err
	}
	defer w.Close()
	r, err := bucket.NewReader(ctx, strings.TrimPrefix(url.Path, "/"))
	if err != nil {
		os.Remove(w.Name())
		return path, fmt.Errorf("l1butil: opening %s: %v", path, err)
	}
	defer r.Close()
	if _, err = io.Copy(w, r); err != nil {
		os.Remove(w.Name())
		return path, fmt.Errorf("l1butil: downloading %s: %v", path, err)
	}
	log.WithFields(logrus.Fields{
		"blob": path,
		"file": w.Name(),
	}).Info("l1butil: downloaded input file")
	return w.Name(), nil
}

// uploadBlob copies the local file at path to the blob at dest.
func uploadBlob(ctx context.Context, path, dest string, log logrus.FieldLogger) error {
	r, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("l1butil: opening file '%s' for upload: %v", path, err)
	}
	defer r.Close()
	url, err := url.Parse(dest)
	if err != nil {
		return fmt.Errorf("l1butil: parsing url '%s' for upload: %v", dest, err)
	}
	bucket, err := OpenBucket(ctx, url.Scheme+"://"+url.Host)
	if err != nil {
		return fmt.Errorf("l1butil: opening bucket to upload file '%s': %v", dest, err)
	}
	w, err := bucket.NewWriter(ctx, strings.TrimPrefix(url.Path, "/"), &blob.WriterOptions{})
	if err != nil {
		return fmt.Errorf("l1butil: opening writer to upload file '%s': %v", dest, err)
	}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return fmt.Errorf("l1butil: uploading file '%s' to '%s': %v", path, dest, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("l1butil: uploading file '%s' to '%s': %v", path, dest, err)
	}
	log.WithFields(logrus.Fields{
		"file": path,
		"blob": dest,
	}).Info("l1butil: uploaded output file")
	return nil
}

// maybeUpload checks whether the given output file path refers to
// a blob storage location. If it does, then a temporary file location
// is returned to write the output to, along with a function that
// uploads the temporary file to the blob and removes it.
// Otherwise outputFile is returned along with a function that does nothing.
func maybeUpload(ctx context.Context, outputFile string, log logrus.FieldLogger) (string, func() error, error) {
	if !IsBlob(outputFile) {
		return outputFile, func() error { return nil }, nil
	}
	dir, err := ioutil.TempDir("", "l1b")
	if err != nil {
		return "", nil, fmt.Errorf("l1butil: failed creating temporary output directory: %v", err)
	}
	local := filepath.Join(dir, filepath.Base(outputFile))
	return local, func() error {
		defer os.RemoveAll(dir)
		return uploadBlob(ctx, local, outputFile, log)
	}, nil
}
