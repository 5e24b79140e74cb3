package lambda

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awslambda "github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

// mockLambdaClient implements LambdaAPI for testing.
type mockLambdaClient struct {
	functions  []lambdatypes.FunctionConfiguration
	pageSize   int
	codeURLs   map[string]string // function name to download URL
	listErr    error
	getFnErr   map[string]error
	listCalls  int
	getFnCalls int
}

func newMockClient() *mockLambdaClient {
	return &mockLambdaClient{
		codeURLs: make(map[string]string),
		getFnErr: make(map[string]error),
	}
}

func (m *mockLambdaClient) ListFunctions(_ context.Context, input *awslambda.ListFunctionsInput, _ ...func(*awslambda.Options)) (*awslambda.ListFunctionsOutput, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}

	page := m.pageSize
	if page <= 0 {
		page = len(m.functions)
	}

	start := 0
	if input.Marker != nil {
		start = atoiMarker(*input.Marker)
	}
	end := start + page
	if end > len(m.functions) {
		end = len(m.functions)
	}

	out := &awslambda.ListFunctionsOutput{Functions: m.functions[start:end]}
	if end < len(m.functions) {
		out.NextMarker = aws.String(itoaMarker(end))
	}
	return out, nil
}

func (m *mockLambdaClient) GetFunction(_ context.Context, input *awslambda.GetFunctionInput, _ ...func(*awslambda.Options)) (*awslambda.GetFunctionOutput, error) {
	m.getFnCalls++
	name := aws.ToString(input.FunctionName)
	if err, ok := m.getFnErr[name]; ok {
		return nil, err
	}

	out := &awslambda.GetFunctionOutput{}
	if url, ok := m.codeURLs[name]; ok {
		out.Code = &lambdatypes.FunctionCodeLocation{Location: aws.String(url)}
	}
	return out, nil
}

func atoiMarker(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}

func itoaMarker(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// makeFunction builds a FunctionConfiguration for tests.
func makeFunction(name, runtime string, codeSize int64) lambdatypes.FunctionConfiguration {
	return lambdatypes.FunctionConfiguration{
		FunctionName: aws.String(name),
		FunctionArn:  aws.String("arn:aws:lambda:us-east-1:111111111111:function:" + name),
		Runtime:      lambdatypes.Runtime(runtime),
		CodeSize:     codeSize,
		MemorySize:   aws.Int32(256),
		Timeout:      aws.Int32(30),
	}
}
