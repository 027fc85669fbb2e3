package s3

// snippet-start:[gov2.s3.PutObject]
func (b Bucket) Put(ctx context.Context, key string, body io.Reader) error {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
		Body:   body,
	})
	return err
}

// snippet-end:[gov2.s3.PutObject]
