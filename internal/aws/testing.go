/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package aws

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/stretchr/testify/mock"
)

// MockClient implements Client for testing
type MockClient struct {
	mock.Mock
}

func (m *MockClient) NewAutoScalingOperations() AutoScalingOperations {
	args := m.Called()
	return args.Get(0).(AutoScalingOperations)
}

func (m *MockClient) NewEC2Operations() EC2Operations {
	args := m.Called()
	return args.Get(0).(EC2Operations)
}

func (m *MockClient) Region() string {
	args := m.Called()
	return args.String(0)
}

// MockClientFactory implements ClientFactory for testing
type MockClientFactory struct {
	mock.Mock
}

func (m *MockClientFactory) GetClient(ctx context.Context, cfg Config) (Client, error) {
	args := m.Called(ctx, cfg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(Client), args.Error(1)
}

func (m *MockClientFactory) ValidateRegion(region string) error {
	args := m.Called(region)
	return args.Error(0)
}

// MockAutoScalingOperations implements AutoScalingOperations for testing
type MockAutoScalingOperations struct {
	mock.Mock
}

func (m *MockAutoScalingOperations) DescribeGroup(ctx context.Context, groupName string) (*Group, error) {
	args := m.Called(ctx, groupName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Group), args.Error(1)
}

func (m *MockAutoScalingOperations) DetachInstance(ctx context.Context, groupName, instanceID string, decrementCapacity bool) error {
	args := m.Called(ctx, groupName, instanceID, decrementCapacity)
	return args.Error(0)
}

func (m *MockAutoScalingOperations) StartInstanceRefresh(ctx context.Context, input StartRefreshInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

func (m *MockAutoScalingOperations) CancelInstanceRefresh(ctx context.Context, groupName string) error {
	args := m.Called(ctx, groupName)
	return args.Error(0)
}

func (m *MockAutoScalingOperations) ActiveInstanceRefresh(ctx context.Context, groupName string) (string, error) {
	args := m.Called(ctx, groupName)
	return args.String(0), args.Error(1)
}

// MockEC2Operations implements EC2Operations for testing
type MockEC2Operations struct {
	mock.Mock
}

func (m *MockEC2Operations) DescribeInstance(ctx context.Context, instanceID string) (*Instance, error) {
	args := m.Called(ctx, instanceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Instance), args.Error(1)
}

func (m *MockEC2Operations) CreateImage(ctx context.Context, input CreateImageInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

func (m *MockEC2Operations) WaitForImage(ctx context.Context, imageID string, timeout time.Duration) error {
	args := m.Called(ctx, imageID, timeout)
	return args.Error(0)
}

func (m *MockEC2Operations) CreateLaunchTemplateVersion(ctx context.Context, input TemplateVersionInput) (int64, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEC2Operations) TerminateInstance(ctx context.Context, instanceID string) error {
	args := m.Called(ctx, instanceID)
	return args.Error(0)
}

// MockAutoScalingClient implements the Auto Scaling service client interface for testing
type MockAutoScalingClient struct {
	mock.Mock
}

func (m *MockAutoScalingClient) DescribeAutoScalingGroups(ctx context.Context, params *autoscaling.DescribeAutoScalingGroupsInput, optFns ...func(*autoscaling.Options)) (*autoscaling.DescribeAutoScalingGroupsOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*autoscaling.DescribeAutoScalingGroupsOutput), args.Error(1)
}

func (m *MockAutoScalingClient) DetachInstances(ctx context.Context, params *autoscaling.DetachInstancesInput, optFns ...func(*autoscaling.Options)) (*autoscaling.DetachInstancesOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*autoscaling.DetachInstancesOutput), args.Error(1)
}

func (m *MockAutoScalingClient) StartInstanceRefresh(ctx context.Context, params *autoscaling.StartInstanceRefreshInput, optFns ...func(*autoscaling.Options)) (*autoscaling.StartInstanceRefreshOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*autoscaling.StartInstanceRefreshOutput), args.Error(1)
}

func (m *MockAutoScalingClient) CancelInstanceRefresh(ctx context.Context, params *autoscaling.CancelInstanceRefreshInput, optFns ...func(*autoscaling.Options)) (*autoscaling.CancelInstanceRefreshOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*autoscaling.CancelInstanceRefreshOutput), args.Error(1)
}

func (m *MockAutoScalingClient) DescribeInstanceRefreshes(ctx context.Context, params *autoscaling.DescribeInstanceRefreshesInput, optFns ...func(*autoscaling.Options)) (*autoscaling.DescribeInstanceRefreshesOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*autoscaling.DescribeInstanceRefreshesOutput), args.Error(1)
}

// MockEC2Client implements the EC2 service client interface for testing
type MockEC2Client struct {
	mock.Mock
}

func (m *MockEC2Client) DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ec2.DescribeInstancesOutput), args.Error(1)
}

func (m *MockEC2Client) CreateImage(ctx context.Context, params *ec2.CreateImageInput, optFns ...func(*ec2.Options)) (*ec2.CreateImageOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ec2.CreateImageOutput), args.Error(1)
}

func (m *MockEC2Client) DescribeImages(ctx context.Context, params *ec2.DescribeImagesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeImagesOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ec2.DescribeImagesOutput), args.Error(1)
}

func (m *MockEC2Client) CreateLaunchTemplateVersion(ctx context.Context, params *ec2.CreateLaunchTemplateVersionInput, optFns ...func(*ec2.Options)) (*ec2.CreateLaunchTemplateVersionOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ec2.CreateLaunchTemplateVersionOutput), args.Error(1)
}

func (m *MockEC2Client) TerminateInstances(ctx context.Context, params *ec2.TerminateInstancesInput, optFns ...func(*ec2.Options)) (*ec2.TerminateInstancesOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ec2.TerminateInstancesOutput), args.Error(1)
}
