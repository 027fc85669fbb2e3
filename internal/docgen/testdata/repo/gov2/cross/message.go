package cross

// snippet-start:[gov2.cross.Message]
func Archive(ctx context.Context, q Queue, b Bucket) error {
	msgs, err := q.Receive(ctx)
	if err != nil {
		return err
	}
	for _, m := range msgs {
		if err := b.Put(ctx, m.ID, strings.NewReader(m.Body)); err != nil {
			return err
		}
	}
	return q.Delete(ctx, msgs)
}

// snippet-end:[gov2.cross.Message]
