package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// MockS3ObjectAPI is an in-memory stand-in for *s3.Client used in tests
type MockS3ObjectAPI struct {
	objects map[string][]byte // map of bucket/key to object content
	mu      sync.RWMutex

	// Err, when set, is returned from every call
	Err error
}

// NewMockS3ObjectAPI creates an empty mock bucket store
func NewMockS3ObjectAPI() *MockS3ObjectAPI {
	return &MockS3ObjectAPI{
		objects: make(map[string][]byte),
	}
}

func objectID(bucket, key *string) string {
	return fmt.Sprintf("%s/%s", aws.ToString(bucket), aws.ToString(key))
}

// GetObject returns a stored object or NoSuchKey
func (m *MockS3ObjectAPI) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	content, exists := m.objects[objectID(params.Bucket, params.Key)]
	m.mu.RUnlock()

	if !exists {
		return nil, &types.NoSuchKey{Message: aws.String("The specified key does not exist.")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(content))}, nil
}

// PutObject stores the object body
func (m *MockS3ObjectAPI) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	content, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	m.mu.Lock()
	m.objects[objectID(params.Bucket, params.Key)] = content
	m.mu.Unlock()
	return &s3.PutObjectOutput{}, nil
}

// DeleteObject removes the object; deleting a missing key succeeds like S3 does
func (m *MockS3ObjectAPI) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	delete(m.objects, objectID(params.Bucket, params.Key))
	m.mu.Unlock()
	return &s3.DeleteObjectOutput{}, nil
}

// HeadBucket always succeeds unless Err is set
func (m *MockS3ObjectAPI) HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return &s3.HeadBucketOutput{}, nil
}

// PutRaw stores arbitrary bytes (for testing corrupt payloads)
func (m *MockS3ObjectAPI) PutRaw(bucket, key string, content []byte) {
	m.mu.Lock()
	m.objects[objectID(&bucket, &key)] = content
	m.mu.Unlock()
}

// ObjectExists checks if an object exists in mock storage
func (m *MockS3ObjectAPI) ObjectExists(bucket, key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.objects[objectID(&bucket, &key)]
	return exists
}
