/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
)

// Client provides access to the service operations of one account and region
type Client interface {
	NewAutoScalingOperations() AutoScalingOperations
	NewEC2Operations() EC2Operations
	Region() string
}

// Config holds configuration for creating an AWS client
type Config struct {
	Region  string
	Profile string

	// Static credentials; used when AccessKeyID is set
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// DefaultClient provides a high-level interface for AWS operations
type DefaultClient struct {
	config aws.Config
	asg    *autoscaling.Client
	ec2    *ec2.Client
}

// NewDefaultClient creates a new AWS client with the specified configuration
func NewDefaultClient(ctx context.Context, cfg Config) (*DefaultClient, error) {
	awsCfg, err := loadConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &DefaultClient{
		config: awsCfg,
		asg:    autoscaling.NewFromConfig(awsCfg),
		ec2:    ec2.NewFromConfig(awsCfg),
	}, nil
}

// loadConfig resolves the SDK configuration for cfg
func loadConfig(ctx context.Context, cfg Config) (aws.Config, error) {
	var opts []func(*config.LoadOptions) error

	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}

	// Static keys win over a shared profile
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	} else if cfg.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return awsCfg, nil
}

// NewAutoScalingOperations returns auto scaling operations bound to this client
func (c *DefaultClient) NewAutoScalingOperations() AutoScalingOperations {
	return NewAutoScalingOperationsWithClient(c.asg)
}

// NewEC2Operations returns EC2 operations bound to this client
func (c *DefaultClient) NewEC2Operations() EC2Operations {
	return NewEC2OperationsWithClient(c.ec2)
}

// Region returns the configured AWS region
func (c *DefaultClient) Region() string {
	return c.config.Region
}
