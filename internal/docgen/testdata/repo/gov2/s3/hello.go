package main

// snippet-start:[gov2.s3.Hello]
func main() {
	fmt.Println("Hello, S3!")
}

// snippet-end:[gov2.s3.Hello]
