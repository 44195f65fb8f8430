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
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/a301/l1b"
	"github.com/cenkalti/backoff"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestMaybeDownloadLocal(t *testing.T) {
	log, _ := test.NewNullLogger()
	if k, err := maybeDownload(context.Background(), "/dev/null", log); err != nil || k != "/dev/null" {
		t.Errorf("expected /dev/null, got %s (%v)", k, err)
	}
	if k, err := maybeDownload(context.Background(), "/blah/test/", log); err != nil || k != "/blah/test/" {
		t.Errorf("expected /blah/test/, got %s (%v)", k, err)
	}
}

func TestMaybeDownloadHTTP(t *testing.T) {
	dir := t.TempDir()
	input := writeTestFile(t, dir, "swath.nc")
	srv := httptest.NewServer(http.FileServer(http.Dir(dir)))
	defer srv.Close()

	log, _ := test.NewNullLogger()
	k, err := maybeDownload(context.Background(), srv.URL+"/swath.nc", log)
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(filepath.Dir(k))
	if filepath.Base(k) != "swath.nc" || k == input {
		t.Errorf("downloaded to %s", k)
	}
	have, err := ioutil.ReadFile(k)
	if err != nil {
		t.Fatal(err)
	}
	want, err := ioutil.ReadFile(input)
	if err != nil {
		t.Fatal(err)
	}
	if string(have) != string(want) {
		t.Error("downloaded file differs from the input")
	}
}

func TestMaybeDownloadHTTPNotFound(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	log, _ := test.NewNullLogger()
	_, err := maybeDownload(context.Background(), srv.URL+"/missing.nc", log)
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("have %v, want a 404 error", err)
	}
	if n := atomic.LoadInt32(&requests); n != 1 {
		t.Errorf("%d requests; a missing file should not be retried", n)
	}
}

func TestMaybeDownloadHTTPRetry(t *testing.T) {
	defer func(b func() backoff.BackOff) { downloadBackOff = b }(downloadBackOff)
	downloadBackOff = func() backoff.BackOff {
		return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 3)
	}

	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&requests, 1) < 3 {
			http.Error(w, "try again", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("swath"))
	}))
	defer srv.Close()

	log, hook := test.NewNullLogger()
	k, err := maybeDownload(context.Background(), srv.URL+"/flaky.nc", log)
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(filepath.Dir(k))
	b, err := ioutil.ReadFile(k)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "swath" {
		t.Errorf("have %q", b)
	}
	if n := atomic.LoadInt32(&requests); n != 3 {
		t.Errorf("have %d requests, want 3", n)
	}
	if len(hook.Entries) < 2 {
		t.Errorf("have %d log entries, want retry warnings", len(hook.Entries))
	}
}

func TestMaybeDownloadBlob(t *testing.T) {
	// fileblob buckets are directories relative to the working directory.
	const bucket = "testbucket"
	if err := os.Mkdir(bucket, 0755); err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(bucket)
	input := writeTestFile(t, t.TempDir(), "swath.nc")

	log, _ := test.NewNullLogger()
	ctx := context.Background()
	if err := uploadBlob(ctx, input, "file://"+bucket+"/swath.nc", log); err != nil {
		t.Fatal(err)
	}
	k, err := maybeDownload(ctx, "file://"+bucket+"/swath.nc", log)
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(filepath.Dir(k))
	have, err := ioutil.ReadFile(k)
	if err != nil {
		t.Fatal(err)
	}
	want, err := ioutil.ReadFile(input)
	if err != nil {
		t.Fatal(err)
	}
	if string(have) != string(want) {
		t.Error("downloaded file differs from the input")
	}

	if _, err := maybeDownload(ctx, "file://"+bucket+"/missing.nc", log); err == nil {
		t.Error("expected error for missing blob")
	}
}

func TestMaybeUploadLocal(t *testing.T) {
	log, _ := test.NewNullLogger()
	local, upload, err := maybeUpload(context.Background(), "out.nc", log)
	if err != nil {
		t.Fatal(err)
	}
	if local != "out.nc" {
		t.Errorf("have %s, want out.nc", local)
	}
	if err := upload(); err != nil {
		t.Error(err)
	}
}

func TestCalibrateBlobOutput(t *testing.T) {
	const bucket = "testbucket_out"
	if err := os.Mkdir(bucket, 0755); err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(bucket)
	input := writeTestFile(t, t.TempDir(), "swath.nc")

	if _, err := run(t, "calibrate", "--InputFile="+input, "--band=30",
		"--OutputFile=file://"+bucket+"/ch30.nc"); err != nil {
		t.Fatal(err)
	}
	log, _ := test.NewNullLogger()
	k, err := maybeDownload(context.Background(), "file://"+bucket+"/ch30.nc", log)
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(filepath.Dir(k))
	f, err := l1b.OpenFile(k)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if !f.Has("ch30") {
		t.Errorf("uploaded file has datasets %v", f.Datasets())
	}
}

func TestIsBlob(t *testing.T) {
	for path, want := range map[string]bool{
		"s3://bucket/file.nc":  true,
		"gs://bucket/file.nc":  true,
		"file://dir/file.nc":   true,
		"http://host/file.nc":  false,
		"/home/user/file.nc":   false,
		"sat_data/MYD021KM.nc": false,
	} {
		if IsBlob(path) != want {
			t.Errorf("%s: want %v", path, want)
		}
	}
}

func TestOpenBucketInvalid(t *testing.T) {
	if _, err := OpenBucket(context.Background(), "ftp://bucket"); err == nil {
		t.Error("expected error for unknown provider")
	}
}
