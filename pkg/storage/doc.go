// Package storage provides S3-compatible object storage for published
// translation fragments.
//
// Fragments are stored under the same layout that is served over HTTP:
//
//	{prefix}/{lang}.json
//	{prefix}/{scope}/{lang}.json
//
// [S3Storage] satisfies i18n.ObjectGetter, so it can back an
// i18n.ObjectFetcher directly, and catalog.Push uploads fragment files with
// [S3Storage.Put]:
//
//	s, err := storage.New(storage.Config{
//	    Bucket:    "translations",
//	    AccessKey: os.Getenv("S3_ACCESS_KEY"),
//	    SecretKey: os.Getenv("S3_SECRET_KEY"),
//	    Endpoint:  "http://localhost:9000",
//	    PathStyle: true,
//	})
//	fetcher := i18n.NewObjectFetcher(s, s.Prefix())
//
// Errors returned by the AWS SDK are mapped onto [ErrNotFound],
// [ErrAccessDenied] or the operation-specific fallback, so callers can use
// errors.Is without depending on AWS types.
package storage
